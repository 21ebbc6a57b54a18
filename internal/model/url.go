package model

import "fmt"

// PageURL formats the canonical trap path for a token at a raw depth.
// The raw depth stays visible and ever-increasing in the URL; only internal
// generation folds it.
func PageURL(depth int, token Token) string {
	return fmt.Sprintf("/page/%d/%s", depth, token)
}
