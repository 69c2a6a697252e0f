package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zurpack/catalog-api/auth"
	"github.com/zurpack/catalog-api/cart"
	cartControllers "github.com/zurpack/catalog-api/controllers/cart"
	quotationController "github.com/zurpack/catalog-api/controllers/quotation"
	"github.com/zurpack/catalog-api/database"
	"github.com/zurpack/catalog-api/mail"
	"github.com/zurpack/catalog-api/models"
	"github.com/zurpack/catalog-api/notify"
	"github.com/zurpack/catalog-api/repository"
)

const testAPIKey = "test-key"

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeImages struct {
	mu      sync.Mutex
	deleted []string
	fail    bool
}

func (f *fakeImages) Upload(_ context.Context, folder string, file *multipart.FileHeader) (string, error) {
	if f.fail {
		return "", errors.New("upload refused")
	}
	return "https://img.example/" + folder + "/" + file.Filename, nil
}

func (f *fakeImages) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, url)
	return nil
}

type fakeSender struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type testServer struct {
	router *gin.Engine
	deps   *Deps
	images *fakeImages
	sender *fakeSender
	token  string
}

func setupServer(t *testing.T) *testServer {
	t.Helper()

	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	images := &fakeImages{}
	sender := &fakeSender{}
	hub := notify.NewHub(nil)
	t.Cleanup(hub.Close)

	d := &Deps{
		Env:            "test",
		APIKey:         testAPIKey,
		AllowedOrigins: []string{"https://shop.example"},
		Products:       repository.NewProductRepository(db),
		Categories:     repository.NewCategoryRepository(db),
		Advertisements: repository.NewAdvertisementRepository(db),
		Admins:         repository.NewAdminRepository(db),
		Tokens:         auth.NewTokens("test-secret", 0),
		Images:         images,
		Carts:          cartControllers.NewCarts(cart.NewMemoryStorage()),
		Desk:           &quotationController.Desk{Sender: sender, To: "owner@example.com", Hub: hub},
		Hub:            hub,
	}

	hash, err := auth.HashPassword("secret-password")
	require.NoError(t, err)
	admin := &models.Admin{Username: "admin", PasswordHash: hash}
	require.NoError(t, d.Admins.Reset(context.Background(), admin))
	token, err := d.Tokens.Issue(admin.ID)
	require.NoError(t, err)

	r := gin.New()
	SetupRoutes(r, d)
	return &testServer{router: r, deps: d, images: images, sender: sender, token: token}
}

type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	admin       bool
	session     string
}

func (s *testServer) do(t *testing.T, req request) *httptest.ResponseRecorder {
	t.Helper()

	r := httptest.NewRequest(req.method, req.path, req.body)
	r.Header.Set("X-API-Key", testAPIKey)
	if req.contentType != "" {
		r.Header.Set("Content-Type", req.contentType)
	}
	if req.admin {
		r.Header.Set("Authorization", "Bearer "+s.token)
	}
	if req.session != "" {
		r.Header.Set(cartControllers.SessionHeader, req.session)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, r)
	return w
}

func (s *testServer) sendJSON(t *testing.T, method, path string, body any, admin bool, session string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	return s.do(t, request{method: method, path: path, body: reader, contentType: "application/json", admin: admin, session: session})
}

// form builds a multipart body; an empty fileName sends no image.
func form(t *testing.T, fields map[string]string, fileField, fileName string, content []byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		part, err := w.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (s *testServer) createCategory(t *testing.T, name string) models.Category {
	t.Helper()

	body, ct := form(t, map[string]string{"name": name, "description": name + " description"}, "image", "cat.jpg", []byte("img"))
	w := s.do(t, request{method: http.MethodPost, path: "/api/categories", body: body, contentType: ct, admin: true})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Category](t, w)
}

func (s *testServer) createProduct(t *testing.T, fields map[string]string) models.Product {
	t.Helper()

	body, ct := form(t, fields, "image", "product.jpg", []byte("img"))
	w := s.do(t, request{method: http.MethodPost, path: "/api/products", body: body, contentType: ct, admin: true})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Product](t, w)
}

func TestHealthAndNotFound(t *testing.T) {
	s := setupServer(t)

	w := s.do(t, request{method: http.MethodGet, path: "/api/health"})
	assert.Equal(t, http.StatusOK, w.Code)
	health := decode[map[string]any](t, w)
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "test", health["environment"])

	w = s.do(t, request{method: http.MethodGet, path: "/api/nothing-here"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "/api/nothing-here")
}

func TestAPIRequiresKeyOrOrigin(t *testing.T) {
	s := setupServer(t)

	r := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, r)
	assert.Equal(t, http.StatusForbidden, w.Code)

	r = httptest.NewRequest(http.MethodGet, "/api/products", nil)
	r.Header.Set("Origin", "https://shop.example")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthLoginAndMe(t *testing.T) {
	s := setupServer(t)

	w := s.sendJSON(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "admin", "password": "secret-password"}, false, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	login := decode[map[string]string](t, w)
	require.NotEmpty(t, login["token"])

	r := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	r.Header.Set("Authorization", "Bearer "+login["token"])
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", decode[map[string]string](t, w)["username"])

	w = s.sendJSON(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "admin", "password": "wrong"}, false, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCatalogLifecycle(t *testing.T) {
	s := setupServer(t)

	category := s.createCategory(t, "Cajas")
	assert.Equal(t, "cajas", category.Slug)
	assert.Equal(t, "https://img.example/categories/cat.jpg", category.ImageURL)

	product := s.createProduct(t, map[string]string{
		"name":        "Caja Chica",
		"description": "Caja de cartón",
		"category":    category.ID,
		"featured":    "true",
	})
	assert.Equal(t, "caja-chica", product.Slug)
	assert.True(t, product.Featured)
	assert.False(t, product.HasSizeVariants)

	w := s.do(t, request{method: http.MethodGet, path: "/api/products"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Product](t, w), 1)

	w = s.do(t, request{method: http.MethodGet, path: "/api/products/featured"})
	assert.Len(t, decode[[]models.Product](t, w), 1)

	w = s.do(t, request{method: http.MethodGet, path: "/api/products/by-category/cajas"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Product](t, w), 1)

	w = s.do(t, request{method: http.MethodGet, path: "/api/products/by-slug/caja-chica"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, product.ID, decode[models.Product](t, w).ID)

	body, ct := form(t, map[string]string{"name": "Caja Grande"}, "image", "new.jpg", []byte("img"))
	w = s.do(t, request{method: http.MethodPut, path: "/api/products/" + product.ID, body: body, contentType: ct, admin: true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[models.Product](t, w)
	assert.Equal(t, "caja-grande", updated.Slug)
	assert.Equal(t, "https://img.example/productos/new.jpg", updated.ImageURL)
	assert.Contains(t, s.images.deleted, "https://img.example/productos/product.jpg")

	w = s.do(t, request{method: http.MethodDelete, path: "/api/products/" + product.ID, admin: true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, s.images.deleted, "https://img.example/productos/new.jpg")

	w = s.do(t, request{method: http.MethodGet, path: "/api/products/by-slug/caja-grande"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, request{method: http.MethodDelete, path: "/api/categories/" + category.ID, admin: true})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, request{method: http.MethodGet, path: "/api/categories/cajas"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMutationsRequireAdmin(t *testing.T) {
	s := setupServer(t)

	body, ct := form(t, map[string]string{"name": "Cajas", "description": "d"}, "image", "cat.jpg", []byte("img"))
	w := s.do(t, request{method: http.MethodPost, path: "/api/categories", body: body, contentType: ct})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, request{method: http.MethodGet, path: "/admin/products/export-excel"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateProduct_Validation(t *testing.T) {
	s := setupServer(t)
	category := s.createCategory(t, "Cintas")

	tests := []struct {
		name      string
		fields    map[string]string
		fileName  string
		wantField string
	}{
		{"missing image", map[string]string{"name": "Cinta", "description": "d", "category": category.ID}, "", "image"},
		{"missing name", map[string]string{"description": "d", "category": category.ID}, "p.jpg", "name"},
		{"unknown category", map[string]string{"name": "Cinta", "description": "d", "category": "nope"}, "p.jpg", "category"},
		{"sizes without variants", map[string]string{
			"name": "Cinta", "description": "d", "category": category.ID,
			"hasSizeVariants": "false", "sizeVariants": `[{"size":"S","isAvailable":true}]`,
		}, "p.jpg", "sizeVariants"},
		{"bad variants json", map[string]string{
			"name": "Cinta", "description": "d", "category": category.ID, "sizeVariants": "{",
		}, "p.jpg", "sizeVariants"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ct := form(t, tt.fields, "image", tt.fileName, []byte("img"))
			w := s.do(t, request{method: http.MethodPost, path: "/api/products", body: body, contentType: ct, admin: true})
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, tt.wantField, decode[map[string]string](t, w)["field"])
		})
	}
}

func TestCreateProduct_UploadFailure(t *testing.T) {
	s := setupServer(t)
	category := s.createCategory(t, "Cintas")
	s.images.fail = true

	body, ct := form(t, map[string]string{"name": "Cinta", "description": "d", "category": category.ID}, "image", "p.jpg", []byte("img"))
	w := s.do(t, request{method: http.MethodPost, path: "/api/products", body: body, contentType: ct, admin: true})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestSearchProducts(t *testing.T) {
	s := setupServer(t)
	boxes := s.createCategory(t, "Cajas")
	tapes := s.createCategory(t, "Cintas")
	s.createProduct(t, map[string]string{"name": "Caja Chica", "description": "d", "category": boxes.ID})
	s.createProduct(t, map[string]string{"name": "Cinta Chica", "description": "d", "category": tapes.ID})

	tests := []struct {
		query string
		want  int
	}{
		{"?name=chica", 2},
		{"?name=CHICA&category=cajas", 1},
		{"?name=chica&category=unknown", 2},
		{"?name=", 0},
		{"?name=grande", 0},
	}
	for _, tt := range tests {
		w := s.do(t, request{method: http.MethodGet, path: "/api/products/search" + tt.query})
		require.Equal(t, http.StatusOK, w.Code, tt.query)
		assert.Len(t, decode[[]models.Product](t, w), tt.want, tt.query)
	}
}

func TestCartFlow(t *testing.T) {
	s := setupServer(t)
	category := s.createCategory(t, "Cajas")
	plain := s.createProduct(t, map[string]string{"name": "Caja Chica", "description": "d", "category": category.ID})
	sized := s.createProduct(t, map[string]string{
		"name": "Bolsa", "description": "d", "category": category.ID,
		"sizeVariants": `[{"size":"M","isAvailable":true},{"size":"L","isAvailable":false}]`,
	})
	assert.True(t, sized.HasSizeVariants)

	w := s.sendJSON(t, http.MethodPost, "/api/cart/items", map[string]any{"productId": plain.ID, "quantity": 2}, false, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	session := w.Header().Get(cartControllers.SessionHeader)
	require.NotEmpty(t, session)
	assert.EqualValues(t, 2, decode[map[string]any](t, w)["total"])

	w = s.sendJSON(t, http.MethodPost, "/api/cart/items", map[string]any{"productId": sized.ID}, false, session)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.sendJSON(t, http.MethodPost, "/api/cart/items", map[string]any{"productId": sized.ID, "selectedSize": "L"}, false, session)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.sendJSON(t, http.MethodPost, "/api/cart/items", map[string]any{"productId": sized.ID, "selectedSize": "M"}, false, session)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, quantity := range []int{0, -1} {
		w = s.sendJSON(t, http.MethodPost, "/api/cart/items", map[string]any{"productId": plain.ID, "quantity": quantity}, false, session)
		assert.Equal(t, http.StatusBadRequest, w.Code, "quantity %d", quantity)
	}
	w = s.do(t, request{method: http.MethodGet, path: "/api/cart", session: session})
	assert.EqualValues(t, 3, decode[map[string]any](t, w)["total"])

	w = s.sendJSON(t, http.MethodPatch, "/api/cart/items/"+plain.ID, map[string]any{"quantity": 5}, false, session)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.EqualValues(t, 2, body["count"])
	assert.EqualValues(t, 6, body["total"])

	w = s.do(t, request{method: http.MethodDelete, path: "/api/cart/items/" + sized.ID + "?selectedSize=M", session: session})
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 5, decode[map[string]any](t, w)["total"])

	quotation := map[string]string{
		"clientType": mail.ClientPerson,
		"rut":        "11.111.111-1",
		"nombre":     "Ana",
		"giro":       "Comercio",
		"direccion":  "Calle 1",
		"comuna":     "Santiago",
		"ciudad":     "Santiago",
		"telefono":   "+56 9 1234 5678",
		"correo":     "ana@example.com",
	}
	w = s.sendJSON(t, http.MethodPost, "/api/cart/quotation", quotation, false, session)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, s.sender.sent, 1)
	assert.Equal(t, "owner@example.com", s.sender.sent[0].To)
	assert.Contains(t, s.sender.sent[0].HTML, "Caja Chica")

	w = s.do(t, request{method: http.MethodGet, path: "/api/cart", session: session})
	assert.EqualValues(t, 0, decode[map[string]any](t, w)["count"])
}

func TestCart_RequiresSessionForChanges(t *testing.T) {
	s := setupServer(t)

	w := s.do(t, request{method: http.MethodDelete, path: "/api/cart"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, request{method: http.MethodGet, path: "/api/cart", session: "bad session!"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendContact(t *testing.T) {
	s := setupServer(t)
	contact := map[string]string{
		"name":    "Ana",
		"email":   "ana@example.com",
		"subject": "Consulta",
		"message": "Hola",
	}

	w := s.sendJSON(t, http.MethodPost, "/api/send-contact", contact, false, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, s.sender.sent, 2)
	assert.Equal(t, "owner@example.com", s.sender.sent[0].To)
	assert.Equal(t, "ana@example.com", s.sender.sent[1].To)

	contact["email"] = "not-an-email"
	w = s.sendJSON(t, http.MethodPost, "/api/send-contact", contact, false, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email", decode[map[string]string](t, w)["field"])

	contact["email"] = "ana@example.com"
	s.sender.err = errors.New("smtp down")
	w = s.sendJSON(t, http.MethodPost, "/api/send-contact", contact, false, "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestAdvertisements(t *testing.T) {
	s := setupServer(t)

	w := s.do(t, request{method: http.MethodGet, path: "/api/advertisements/active"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", strings.TrimSpace(w.Body.String()))

	w = s.sendJSON(t, http.MethodPost, "/api/advertisements", map[string]any{"text": "Oferta", "isActive": true}, true, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ad := decode[models.Advertisement](t, w)

	w = s.do(t, request{method: http.MethodGet, path: "/api/advertisements/active"})
	assert.Equal(t, ad.ID, decode[models.Advertisement](t, w).ID)

	w = s.sendJSON(t, http.MethodPut, "/api/advertisements/"+ad.ID+"/toggle", nil, true, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[models.Advertisement](t, w).IsActive)

	w = s.sendJSON(t, http.MethodPut, "/api/advertisements/"+ad.ID, map[string]any{"text": "Nueva oferta"}, true, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Nueva oferta", decode[models.Advertisement](t, w).Text)

	w = s.do(t, request{method: http.MethodDelete, path: "/api/advertisements/" + ad.ID, admin: true})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, request{method: http.MethodDelete, path: "/api/advertisements/" + ad.ID, admin: true})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExcelRoundTrip(t *testing.T) {
	s := setupServer(t)
	category := s.createCategory(t, "Cajas")
	s.createProduct(t, map[string]string{"name": "Caja Chica", "description": "d", "category": category.ID})

	w := s.do(t, request{method: http.MethodGet, path: "/admin/products/export-excel", admin: true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "products.xlsx")

	body, ct := form(t, nil, "file", "products.xlsx", w.Body.Bytes())
	w = s.do(t, request{method: http.MethodPost, path: "/admin/products/import-excel", body: body, contentType: ct, admin: true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode[map[string]any](t, w)
	assert.EqualValues(t, 0, result["created_count"])
	assert.EqualValues(t, 1, result["updated_count"])
	assert.EqualValues(t, 0, result["skipped_count"])
}

func TestAdminWebSocketReceivesContactRequests(t *testing.T) {
	s := setupServer(t)
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/admin/ws?token=" + s.token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return s.deps.Hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	w := s.sendJSON(t, http.MethodPost, "/api/send-contact", map[string]string{
		"name":    "Ana",
		"email":   "ana@example.com",
		"subject": "Consulta",
		"message": "Hola",
	}, false, "")
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev struct {
		Type    string            `json:"type"`
		Payload map[string]string `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, notify.EventContact, ev.Type)
	assert.Equal(t, "Consulta", ev.Payload["subject"])
}

func TestAdminWebSocketRequiresToken(t *testing.T) {
	s := setupServer(t)
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/admin/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
