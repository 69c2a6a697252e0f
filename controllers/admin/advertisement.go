package adminController

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zurpack/catalog-api/controllers/respond"
	"github.com/zurpack/catalog-api/models"
	"github.com/zurpack/catalog-api/repository"
)

type advertisementInput struct {
	Text            *string `json:"text"`
	BackgroundColor *string `json:"backgroundColor"`
	TextColor       *string `json:"textColor"`
	IsActive        *bool   `json:"isActive"`
}

func (in advertisementInput) apply(ad *models.Advertisement) {
	if in.Text != nil {
		ad.Text = strings.TrimSpace(*in.Text)
	}
	if in.BackgroundColor != nil {
		ad.BackgroundColor = *in.BackgroundColor
	}
	if in.TextColor != nil {
		ad.TextColor = *in.TextColor
	}
	if in.IsActive != nil {
		ad.IsActive = *in.IsActive
	}
}

func GetAdvertisements(ads *repository.AdvertisementRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := ads.List(c.Request.Context())
		if err != nil {
			respond.Error(c, err, "", "Error al obtener anuncios")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// GetActiveAdvertisement answers the active advertisement or null.
func GetActiveAdvertisement(ads *repository.AdvertisementRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ad, err := ads.Active(c.Request.Context())
		if err != nil {
			respond.Error(c, err, "", "Error al obtener anuncio activo")
			return
		}
		c.JSON(http.StatusOK, ad)
	}
}

func CreateAdvertisement(ads *repository.AdvertisementRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input advertisementInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.BadRequest(c, "text", "Solicitud inválida")
			return
		}

		var ad models.Advertisement
		input.apply(&ad)
		if err := ads.Save(c.Request.Context(), &ad); err != nil {
			respond.Error(c, err, "", "Error al crear anuncio")
			return
		}
		c.JSON(http.StatusCreated, ad)
	}
}

func UpdateAdvertisement(ads *repository.AdvertisementRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input advertisementInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.BadRequest(c, "text", "Solicitud inválida")
			return
		}

		ctx := c.Request.Context()
		ad, err := ads.FindByID(ctx, c.Param("id"))
		if err != nil {
			respond.Error(c, err, "Anuncio no encontrado", "Error al actualizar anuncio")
			return
		}
		input.apply(ad)
		if err := ads.Save(ctx, ad); err != nil {
			respond.Error(c, err, "Anuncio no encontrado", "Error al actualizar anuncio")
			return
		}
		c.JSON(http.StatusOK, ad)
	}
}

func ToggleAdvertisement(ads *repository.AdvertisementRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ad, err := ads.Toggle(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.Error(c, err, "Anuncio no encontrado", "Error al cambiar estado del anuncio")
			return
		}
		c.JSON(http.StatusOK, ad)
	}
}

func DeleteAdvertisement(ads *repository.AdvertisementRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ads.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respond.Error(c, err, "Anuncio no encontrado", "Error al eliminar anuncio")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Anuncio eliminado correctamente"})
	}
}
