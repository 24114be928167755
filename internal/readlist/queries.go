package readlist

// Fixed GraphQL documents. Parameters travel as variables so no caller
// input is ever spliced into the document text.

const articleQuery = `
query article($username: String!, $slug: String!) {
  article(username: $username, slug: $slug) {
    ... on ArticleSuccess {
      article {
        id
        slug
        savedAt
        highlights {
          id
          quote
          annotation
          labels {
            name
          }
        }
      }
    }
  }
}`

const searchQuery = `
query search($after: String, $first: Int, $query: String, $includeContent: Boolean, $format: String) {
  search(after: $after, first: $first, query: $query, includeContent: $includeContent, format: $format) {
    ... on SearchSuccess {
      edges {
        node {
          id
          title
          siteName
          originalArticleUrl
          author
          description
          slug
          labels {
            name
          }
          highlights {
            id
            quote
            annotation
            patch
            updatedAt
            type
            labels {
              name
            }
          }
          updatedAt
          savedAt
          pageType
          content
          publishedAt
        }
      }
      pageInfo {
        hasNextPage
      }
    }
    ... on SearchError {
      errorCodes
    }
  }
}`

const updatesSinceQuery = `
query updatesSince($after: String, $first: Int, $since: Date!) {
  updatesSince(after: $after, first: $first, since: $since) {
    ... on UpdatesSinceSuccess {
      edges {
        updateReason
        node {
          slug
        }
      }
      pageInfo {
        hasNextPage
      }
    }
    ... on UpdatesSinceError {
      errorCodes
    }
  }
}`
