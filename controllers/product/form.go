package productcontroller

import (
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zurpack/catalog-api/models"
)

// formBool reads a "true"/"false" form field; ok is false when absent.
func formBool(c *gin.Context, key string) (value, ok bool) {
	v, ok := c.GetPostForm(key)
	if !ok {
		return false, false
	}
	return strings.EqualFold(strings.TrimSpace(v), "true"), true
}

// formVariants decodes the JSON "sizeVariants" field; ok is false when absent.
func formVariants(c *gin.Context) (variants []models.SizeVariant, ok bool, err error) {
	raw, ok := c.GetPostForm("sizeVariants")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, ok, nil
	}
	if err := json.Unmarshal([]byte(raw), &variants); err != nil {
		return nil, true, err
	}
	return variants, true, nil
}
