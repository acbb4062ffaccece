// Package fakebackend serves an in-memory copy of the inventory REST API for tests.
package fakebackend

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/stockpanel/internal/domain/models"
)

// Request is one call received by the fake backend.
type Request struct {
	Method string
	Path   string
	Body   []byte
}

// Server is an httptest server emulating the inventory backend.
type Server struct {
	srv *httptest.Server

	mu       sync.Mutex
	products []models.Product
	messages []models.ContactMessage
	nextID   int
	requests []Request
	failures map[string]int
}

// New starts a fake backend that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{nextID: 1, failures: map[string]int{}}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(s.record)

	api := r.Group("/api")
	api.GET("/products", s.listProducts)
	api.POST("/products", s.createProduct)
	api.PUT("/products/:id", s.updateProduct)
	api.DELETE("/products/:id", s.deleteProduct)
	api.GET("/contact-messages", s.listMessages)
	api.POST("/contact-messages", s.createMessage)
	api.DELETE("/contact-messages/:id", s.deleteMessage)

	s.srv = httptest.NewServer(r)
	t.Cleanup(s.srv.Close)
	return s
}

// BaseURL is the API root to configure clients with.
func (s *Server) BaseURL() string {
	return s.srv.URL + "/api"
}

// Close stops the server early, making it unreachable.
func (s *Server) Close() {
	s.srv.Close()
}

// SeedProducts replaces the stored products.
func (s *Server) SeedProducts(products ...models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append([]models.Product(nil), products...)
	for _, p := range products {
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
	}
}

// SeedMessages replaces the stored contact messages.
func (s *Server) SeedMessages(messages ...models.ContactMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append([]models.ContactMessage(nil), messages...)
	for _, m := range messages {
		if m.ID >= s.nextID {
			s.nextID = m.ID + 1
		}
	}
}

// Products returns a copy of the stored products.
func (s *Server) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Product(nil), s.products...)
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestsFor returns the requests matching method and path.
func (s *Server) RequestsFor(method, path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// Fail makes every request to method and path answer with status.
func (s *Server) Fail(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = status
}

// Recover removes a failure installed with Fail.
func (s *Server) Recover(method, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, method+" "+path)
}

func (s *Server) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	_ = c.Request.Body.Close()

	method, path := c.Request.Method, c.Request.URL.Path
	s.mu.Lock()
	s.requests = append(s.requests, Request{Method: method, Path: path, Body: body})
	status, failing := s.failures[method+" "+path]
	s.mu.Unlock()

	if failing {
		c.AbortWithStatusJSON(status, gin.H{"error": http.StatusText(status)})
		return
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	c.Next()
}

func (s *Server) listProducts(c *gin.Context) {
	c.JSON(http.StatusOK, s.Products())
}

func (s *Server) createProduct(c *gin.Context) {
	var in models.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	s.mu.Lock()
	p := models.Product{ID: s.nextID, Name: in.Name, Quantity: in.Quantity, Price: in.Price, MinStock: in.MinStock}
	s.nextID++
	s.products = append(s.products, p)
	s.mu.Unlock()

	c.JSON(http.StatusCreated, p)
}

func (s *Server) updateProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	var in models.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.products {
		if p.ID == id {
			s.products[i] = models.Product{ID: id, Name: in.Name, Quantity: in.Quantity, Price: in.Price, MinStock: in.MinStock}
			c.JSON(http.StatusOK, s.products[i])
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
}

func (s *Server) deleteProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.products {
		if p.ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
}

func (s *Server) listMessages(c *gin.Context) {
	s.mu.Lock()
	messages := append([]models.ContactMessage(nil), s.messages...)
	s.mu.Unlock()
	c.JSON(http.StatusOK, messages)
}

func (s *Server) createMessage(c *gin.Context) {
	var in models.ContactMessageInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	s.mu.Lock()
	m := models.ContactMessage{ID: s.nextID, Name: in.Name, Email: in.Email, Message: in.Message, CreatedAt: "2025-01-01T00:00:00"}
	s.nextID++
	s.messages = append(s.messages, m)
	s.mu.Unlock()

	c.JSON(http.StatusCreated, m)
}

func (s *Server) deleteMessage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.messages {
		if m.ID == id {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
}
