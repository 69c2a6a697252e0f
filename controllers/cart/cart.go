package cartControllers

import (
	"errors"
	"hash/fnv"
	"net/http"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/zurpack/catalog-api/cart"
	"github.com/zurpack/catalog-api/controllers/respond"
	quotationController "github.com/zurpack/catalog-api/controllers/quotation"
	"github.com/zurpack/catalog-api/mail"
	"github.com/zurpack/catalog-api/models"
	"github.com/zurpack/catalog-api/repository"
)

// SessionHeader carries the cart session between requests.
const SessionHeader = "X-Cart-Session"

var validSession = regexp.MustCompile(`^[A-Za-z0-9_-]{8,64}$`)

const lockStripes = 64

// Carts opens the per-session cart stores. Requests for one session are
// serialised so each store keeps a single writer.
type Carts struct {
	storage cart.Storage
	locks   [lockStripes]sync.Mutex
}

func NewCarts(storage cart.Storage) *Carts {
	return &Carts{storage: storage}
}

// open resolves the session, locks it and loads its store. create mints a
// new session when the request carries none.
func (cs *Carts) open(c *gin.Context, create bool) (store *cart.Store, unlock func(), ok bool) {
	session := c.GetHeader(SessionHeader)
	if session == "" {
		session = c.Query("session")
	}
	if session == "" {
		if !create {
			c.JSON(http.StatusBadRequest, gin.H{"message": "missing cart session"})
			return nil, nil, false
		}
		session = uuid.NewString()
	}
	if !validSession.MatchString(session) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid cart session"})
		return nil, nil, false
	}
	c.Header(SessionHeader, session)

	h := fnv.New32a()
	_, _ = h.Write([]byte(session))
	mu := &cs.locks[h.Sum32()%lockStripes]
	mu.Lock()
	store = cart.NewStore(cs.storage, cart.WithKey(session+":"+cart.StorageKey))
	return store, mu.Unlock, true
}

func writeCart(c *gin.Context, status int, store *cart.Store) {
	c.JSON(status, gin.H{
		"items": store.Items(),
		"count": store.Count(),
		"total": store.Total(),
	})
}

// GetCart handles GET /api/cart.
func GetCart(carts *Carts) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, unlock, ok := carts.open(c, true)
		if !ok {
			return
		}
		defer unlock()
		writeCart(c, http.StatusOK, store)
	}
}

type addItemInput struct {
	ProductID    string `json:"productId" binding:"required"`
	Quantity     *int   `json:"quantity"`
	SelectedSize string `json:"selectedSize"`
}

// AddItem snapshots the product from the catalog and adds it to the cart.
func AddItem(carts *Carts, products *repository.ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input addItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.BadRequest(c, "productId", "productId is required")
			return
		}
		quantity := 1
		if input.Quantity != nil {
			quantity = *input.Quantity
		}

		product, err := products.FindByID(c.Request.Context(), input.ProductID)
		if errors.Is(err, repository.ErrNotFound) {
			respond.BadRequest(c, "productId", "Product does not exist")
			return
		}
		if err != nil {
			respond.Error(c, err, "", "Failed to validate product")
			return
		}
		if product.Category != nil && !product.Category.Active {
			respond.BadRequest(c, "productId", "Product is not available")
			return
		}

		size := strings.TrimSpace(input.SelectedSize)
		if product.HasSizeVariants {
			if size == "" {
				respond.BadRequest(c, "selectedSize", "a size must be selected")
				return
			}
			if !sizeAvailable(product.SizeVariants, size) {
				respond.BadRequest(c, "selectedSize", "size is not available")
				return
			}
		}

		store, unlock, ok := carts.open(c, true)
		if !ok {
			return
		}
		defer unlock()

		item := cart.Item{
			ProductID:   product.ID,
			Name:        product.Name,
			ImageURL:    product.ImageURL,
			Category:    cart.Label(product.CategoryName()),
			HasVariants: product.HasSizeVariants,
			Variant:     size,
		}
		if err := store.Add(item, quantity); err != nil {
			if errors.Is(err, cart.ErrInvalidQuantity) {
				respond.BadRequest(c, "quantity", "quantity must be at least 1")
				return
			}
			respond.Error(c, err, "", "Failed to update cart")
			return
		}
		writeCart(c, http.StatusOK, store)
	}
}

type setQuantityInput struct {
	Quantity     *int   `json:"quantity" binding:"required"`
	SelectedSize string `json:"selectedSize"`
}

// SetQuantity handles PATCH /api/cart/items/:productId. Zero or less removes.
func SetQuantity(carts *Carts) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input setQuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.BadRequest(c, "quantity", "quantity is required")
			return
		}

		store, unlock, ok := carts.open(c, false)
		if !ok {
			return
		}
		defer unlock()

		store.SetQuantity(c.Param("productId"), *input.Quantity, input.SelectedSize)
		writeCart(c, http.StatusOK, store)
	}
}

// RemoveItem handles DELETE /api/cart/items/:productId?selectedSize=.
func RemoveItem(carts *Carts) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, unlock, ok := carts.open(c, false)
		if !ok {
			return
		}
		defer unlock()

		store.Remove(c.Param("productId"), c.Query("selectedSize"))
		writeCart(c, http.StatusOK, store)
	}
}

// ClearCart handles DELETE /api/cart.
func ClearCart(carts *Carts) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, unlock, ok := carts.open(c, false)
		if !ok {
			return
		}
		defer unlock()

		store.Clear()
		writeCart(c, http.StatusOK, store)
	}
}

// RequestQuotation sends the session cart as a quotation and clears it.
func RequestQuotation(carts *Carts, desk *quotationController.Desk) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q mail.Quotation
		if err := c.ShouldBindJSON(&q); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Solicitud inválida"})
			return
		}

		store, unlock, ok := carts.open(c, false)
		if !ok {
			return
		}
		defer unlock()

		q.Items = store.QuotationItems()
		if err := desk.SendQuotation(c.Request.Context(), q); err != nil {
			quotationController.Fail(c, err, "Error al enviar cotización")
			return
		}
		store.Clear()
		c.JSON(http.StatusOK, gin.H{"message": "Cotización enviada exitosamente"})
	}
}

func sizeAvailable(variants []models.SizeVariant, size string) bool {
	for _, v := range variants {
		if v.Size == size {
			return v.IsAvailable
		}
	}
	return false
}
