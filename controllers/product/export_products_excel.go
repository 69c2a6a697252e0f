package productcontroller

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"github.com/zurpack/catalog-api/models"
	"github.com/zurpack/catalog-api/repository"
)

var excelHeaders = []string{
	"ID", "Name", "Slug", "Description", "CategoryID", "Category",
	"ImageURL", "Featured", "HasSizeVariants", "SizeVariants",
	"CreatedAt", "UpdatedAt",
}

// buildProductsSheet writes one row per product below a header row.
func buildProductsSheet(products []models.Product) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, err
	}

	header := sheet.AddRow()
	for _, h := range excelHeaders {
		header.AddCell().SetValue(h)
	}

	for _, p := range products {
		variants := p.SizeVariants
		if variants == nil {
			variants = []models.SizeVariant{}
		}
		encoded, err := json.Marshal(variants)
		if err != nil {
			return nil, err
		}

		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Slug)
		row.AddCell().SetValue(p.Description)
		row.AddCell().SetValue(p.CategoryID)
		row.AddCell().SetValue(p.CategoryName())
		row.AddCell().SetValue(p.ImageURL)
		row.AddCell().SetValue(strconv.FormatBool(p.Featured))
		row.AddCell().SetValue(strconv.FormatBool(p.HasSizeVariants))
		row.AddCell().SetValue(string(encoded))
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return file, nil
}

func ExportProductsToExcel(products *repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := products.ListAll(c.Request.Context())
		if err != nil {
			log.Println("❌ Failed to fetch products:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch products"})
			return
		}

		file, err := buildProductsSheet(list)
		if err != nil {
			log.Println("❌ Failed to build Excel sheet:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create Excel sheet"})
			return
		}

		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			log.Println("❌ Failed to write Excel file:", err)
		}
	}
}
