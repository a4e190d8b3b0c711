package shopify

import "strings"

const gidScheme = "gid://shopify/"

// Global id types used by the storefront API.
const (
	TypeCart           = "Cart"
	TypeCartLine       = "CartLine"
	TypeProductVariant = "ProductVariant"
	TypeProduct        = "Product"
)

// EnsureGID returns id in its gid://shopify/<typ>/ form. Ids that already carry
// a gid prefix (of any type) are returned untouched.
func EnsureGID(typ, id string) string {
	id = strings.TrimSpace(id)
	if id == "" || strings.HasPrefix(id, gidScheme) {
		return id
	}
	return gidScheme + typ + "/" + id
}

// TrimGID strips the gid://shopify/<typ>/ prefix, leaving the opaque part.
func TrimGID(typ, id string) string {
	id = strings.TrimSpace(id)
	return strings.TrimPrefix(id, gidScheme+typ+"/")
}
