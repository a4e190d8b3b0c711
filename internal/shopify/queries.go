package shopify

// Page sizes requested from the storefront API.
const (
	productsPageSize = 100
	cartLinesPage    = 100
)

const cartFragment = `
fragment CartFields on Cart {
  id
  checkoutUrl
  lines(first: $linesFirst) {
    edges {
      node {
        id
        quantity
        merchandise {
          ... on ProductVariant {
            id
            title
            price {
              amount
              currencyCode
            }
            product {
              title
            }
          }
        }
      }
    }
  }
}
`

const userErrorFields = `
    userErrors {
      field
      message
      code
    }
`

const productsQuery = `
query Products($first: Int!) {
  products(first: $first) {
    edges {
      node {
        id
        title
        description
        priceRange {
          minVariantPrice {
            amount
            currencyCode
          }
        }
        images(first: 1) {
          edges {
            node {
              url
              altText
            }
          }
        }
        variants(first: 1) {
          edges {
            node {
              id
              price {
                amount
                currencyCode
              }
              availableForSale
            }
          }
        }
      }
    }
  }
}
`

const cartQuery = `
query Cart($id: ID!, $linesFirst: Int!) {
  cart(id: $id) {
    ...CartFields
  }
}
` + cartFragment

const cartCreateMutation = `
mutation CartCreate($input: CartInput!, $linesFirst: Int!) {
  cartCreate(input: $input) {
    cart {
      ...CartFields
    }` + userErrorFields + `
  }
}
` + cartFragment

const cartLinesAddMutation = `
mutation CartLinesAdd($cartId: ID!, $lines: [CartLineInput!]!, $linesFirst: Int!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart {
      ...CartFields
    }` + userErrorFields + `
  }
}
` + cartFragment

const cartLinesUpdateMutation = `
mutation CartLinesUpdate($cartId: ID!, $lines: [CartLineUpdateInput!]!, $linesFirst: Int!) {
  cartLinesUpdate(cartId: $cartId, lines: $lines) {
    cart {
      ...CartFields
    }` + userErrorFields + `
  }
}
` + cartFragment

const cartLinesRemoveMutation = `
mutation CartLinesRemove($cartId: ID!, $lineIds: [ID!]!, $linesFirst: Int!) {
  cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
    cart {
      ...CartFields
    }` + userErrorFields + `
  }
}
` + cartFragment
