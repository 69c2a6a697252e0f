package productcontroller

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"github.com/zurpack/catalog-api/models"
	"github.com/zurpack/catalog-api/repository"
	"github.com/zurpack/catalog-api/slug"
)

// Column positions shared with the export layout.
const (
	colID = iota
	colName
	colSlug
	colDescription
	colCategoryID
	colCategory
	colImageURL
	colFeatured
	colHasSizeVariants
	colSizeVariants
)

// rowError explains why a spreadsheet row was skipped.
type rowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportProductsFromExcel upserts products by ID from the first sheet.
// Existing products keep their slug unless renamed; new rows may carry one.
func ImportProductsFromExcel(products *repository.ProductRepository, categories *repository.CategoryRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		header, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Excel file is required"})
			return
		}
		f, err := header.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to open Excel file"})
			return
		}
		defer f.Close()

		xlFile, err := xlsx.OpenReaderAt(f, header.Size)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to parse Excel file"})
			return
		}
		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Excel file is empty or missing header row"})
			return
		}

		sheet := xlFile.Sheets[0]
		created, updated := 0, 0
		var skipped []rowError

		for i := 1; i < len(sheet.Rows); i++ {
			product, err := productFromRow(sheet.Rows[i])
			if err != nil {
				skipped = append(skipped, rowError{Row: i + 1, Message: err.Error()})
				continue
			}
			if product == nil {
				continue
			}
			if _, err := categories.FindByID(ctx, product.CategoryID); err != nil {
				skipped = append(skipped, rowError{Row: i + 1, Message: "unknown category " + product.CategoryID})
				continue
			}

			isNew, err := products.Upsert(ctx, product)
			if err != nil {
				skipped = append(skipped, rowError{Row: i + 1, Message: err.Error()})
				continue
			}
			if isNew {
				created++
			} else {
				updated++
			}
		}

		log.Printf("📥 Excel import: %d created, %d updated, %d skipped", created, updated, len(skipped))
		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": created,
			"updated_count": updated,
			"skipped_count": len(skipped),
			"skipped":       skipped,
		})
	}
}

// productFromRow parses one row. Blank rows return nil, nil.
func productFromRow(row *xlsx.Row) (*models.Product, error) {
	if row == nil {
		return nil, nil
	}
	get := func(index int) string {
		if index < len(row.Cells) {
			return strings.TrimSpace(row.Cells[index].String())
		}
		return ""
	}

	p := &models.Product{
		ID:          get(colID),
		Name:        get(colName),
		Slug:        slug.Make(get(colSlug)),
		Description: get(colDescription),
		CategoryID:  get(colCategoryID),
		ImageURL:    get(colImageURL),
	}
	if p.ID == "" && p.Name == "" && p.CategoryID == "" {
		return nil, nil
	}

	p.Featured, _ = strconv.ParseBool(get(colFeatured))
	p.HasSizeVariants, _ = strconv.ParseBool(get(colHasSizeVariants))
	if raw := get(colSizeVariants); raw != "" {
		if err := json.Unmarshal([]byte(raw), &p.SizeVariants); err != nil {
			return nil, err
		}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
