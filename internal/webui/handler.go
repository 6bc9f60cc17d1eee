package webui

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ridwanfathin/purchase-manager-service/internal/client"
	"github.com/ridwanfathin/purchase-manager-service/internal/domain"
	"github.com/ridwanfathin/purchase-manager-service/internal/format"
	"github.com/ridwanfathin/purchase-manager-service/internal/logging"
	"github.com/ridwanfathin/purchase-manager-service/internal/model"
	"github.com/ridwanfathin/purchase-manager-service/internal/validation"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	productDisplayLength = 40
	formOverhead         = 1 << 20

	msgDeleted       = "Purchase deleted successfully"
	msgNothingExport = "No purchases to export"
	msgInvalidID     = "Invalid purchase ID"
	msgInvalidSearch = "Invalid search parameters"
	msgNotFound      = "Purchase not found"
)

// PurchaseAPI is the part of the purchase API the UI calls
type PurchaseAPI interface {
	UploadPurchase(ctx context.Context, input domain.PurchaseInput, filename string, receipt io.Reader) (*model.UploadPurchaseResponse, error)
	SearchPurchases(ctx context.Context, filter domain.PurchaseFilter) ([]domain.Purchase, error)
	GetPurchase(ctx context.Context, purchaseID int64) (*domain.Purchase, error)
	DeletePurchase(ctx context.Context, purchaseID int64) error
	HealthCheck(ctx context.Context) error
}

// Handler serves the purchase manager pages
type Handler struct {
	api            PurchaseAPI
	sessions       *SessionStore
	maxReceiptSize int64
	tmpl           *template.Template
	logger         *logrus.Logger
}

// NewHandler creates the UI handler
func NewHandler(api PurchaseAPI, sessions *SessionStore, maxReceiptSize int64, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if maxReceiptSize <= 0 {
		maxReceiptSize = validation.DefaultMaxFileSize
	}
	return &Handler{
		api:            api,
		sessions:       sessions,
		maxReceiptSize: maxReceiptSize,
		tmpl:           template.Must(template.ParseFS(templateFS, "templates/*.html")),
		logger:         logger,
	}
}

// RegisterRoutes mounts the UI on r
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.SetHTMLTemplate(h.tmpl)

	r.GET("/", h.Index)
	r.POST("/upload", h.Upload)
	r.POST("/search", h.Search)
	r.POST("/clear", h.Clear)
	r.GET("/purchases/:id", h.Detail)
	r.POST("/purchases/:id/delete", h.RequestDelete)
	r.POST("/purchases/:id/confirm", h.ConfirmDelete)
	r.POST("/purchases/:id/cancel", h.CancelDelete)
	r.GET("/export/csv", h.ExportCSV)
	r.GET("/export/xlsx", h.ExportXLSX)
	r.GET("/export/summary", h.ExportSummary)
}

// purchaseRow is a purchase formatted for display
type purchaseRow struct {
	ID       int64
	Customer string
	CF       string
	Card     string
	Product  string
	Price    string
	Date     string
	Receipt  string
}

func newPurchaseRows(purchases []domain.Purchase) []purchaseRow {
	rows := make([]purchaseRow, 0, len(purchases))
	for _, p := range purchases {
		rows = append(rows, purchaseRow{
			ID:       p.ID,
			Customer: p.CustomerName + " " + p.CustomerSurname,
			CF:       p.CustomerCF,
			Card:     format.CreditCard(p.CreditCard),
			Product:  format.Truncate(p.ProductName, productDisplayLength),
			Price:    format.Currency(p.Price),
			Date:     format.Date(p.Date),
			Receipt:  format.ReceiptName(p.ReceiptPath),
		})
	}
	return rows
}

type pageData struct {
	APIHealthy     bool
	Flashes        []Flash
	Search         SearchForm
	Searched       bool
	Results        []purchaseRow
	Pending        []purchaseRow
	ResultCount    int
	UploadCount    int
	Today          string
	MaxReceiptSize string
}

// Index renders the page from the session state
func (h *Handler) Index(c *gin.Context) {
	healthy := h.api.HealthCheck(c.Request.Context()) == nil

	sess := h.sessions.Get(c)
	sess.Lock()
	data := pageData{
		APIHealthy:     healthy,
		Flashes:        sess.TakeFlashes(),
		Search:         searchFormFrom(sess.LastFilter),
		Searched:       sess.LastFilter != nil,
		Results:        newPurchaseRows(sess.Visible()),
		Pending:        newPurchaseRows(sess.Pending()),
		ResultCount:    len(sess.Results),
		UploadCount:    sess.UploadCount,
		Today:          time.Now().Format(isoDate),
		MaxReceiptSize: format.FileSize(h.maxReceiptSize),
	}
	sess.Unlock()

	c.HTML(http.StatusOK, "index.html", data)
}

// Upload validates the form and, only if every rule passes, sends it to the API
func (h *Handler) Upload(c *gin.Context) {
	sess := h.sessions.Get(c)
	sess.Lock()
	defer sess.Unlock()
	defer h.backToIndex(c)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxReceiptSize+formOverhead)

	var form UploadForm
	if err := c.ShouldBind(&form); err != nil {
		logging.LogError(h.logger, "webui", "Upload", "bind upload form", nil, err)
		if strings.Contains(err.Error(), "request body too large") {
			sess.AddFlash(FlashError, validation.FileSize(c.Request.ContentLength, h.maxReceiptSize).Message)
			return
		}
		sess.AddFlash(FlashError, msgMissingFields)
		return
	}

	if messages := form.Validate(h.maxReceiptSize); len(messages) > 0 {
		for _, m := range messages {
			sess.AddFlash(FlashError, m)
		}
		return
	}

	receipt, err := form.Receipt.Open()
	if err != nil {
		logging.LogError(h.logger, "webui", "Upload", "open receipt", nil, err)
		sess.AddFlash(FlashError, "Unexpected error: "+err.Error())
		return
	}
	defer receipt.Close()

	resp, err := h.api.UploadPurchase(c.Request.Context(), form.Input(), form.Receipt.Filename, receipt)
	if err != nil {
		logging.LogError(h.logger, "webui", "Upload", "upload purchase", nil, err)
		sess.AddFlash(FlashError, apiErrorMessage("Upload failed", err))
		return
	}

	sess.UploadCount++
	sess.AddFlash(FlashSuccess, resp.Message)
}

// Search runs a search and stores the result set in the session
func (h *Handler) Search(c *gin.Context) {
	sess := h.sessions.Get(c)
	sess.Lock()
	defer sess.Unlock()
	defer h.backToIndex(c)

	var form SearchForm
	if err := c.ShouldBind(&form); err != nil {
		logging.LogError(h.logger, "webui", "Search", "bind search form", nil, err)
		sess.AddFlash(FlashError, msgInvalidSearch)
		return
	}
	filter := form.Filter()

	purchases, err := h.api.SearchPurchases(c.Request.Context(), filter)
	if err != nil {
		logging.LogError(h.logger, "webui", "Search", "search purchases", nil, err)
		sess.AddFlash(FlashError, apiErrorMessage("Search failed", err))
		sess.SetResults(nil, nil)
		return
	}

	sess.SetResults(purchases, &filter)
	if len(purchases) > 0 {
		sess.AddFlash(FlashInfo, fmt.Sprintf("Found %d purchase(s)", len(purchases)))
	}
}

// purchaseDetail is one purchase formatted for its own page
type purchaseDetail struct {
	purchaseRow
	Name        string
	Surname     string
	FullProduct string
	ReceiptPath string
}

// Detail shows a single purchase fetched from the API
func (h *Handler) Detail(c *gin.Context) {
	sess := h.sessions.Get(c)
	sess.Lock()
	defer sess.Unlock()

	id, ok := pathID(c, sess)
	if !ok {
		h.backToIndex(c)
		return
	}

	p, err := h.api.GetPurchase(c.Request.Context(), id)
	if err != nil {
		if client.IsNotFound(err) {
			sess.AddFlash(FlashWarning, msgNotFound)
		} else {
			logging.LogError(h.logger, "webui", "Detail", "get purchase", id, err)
			sess.AddFlash(FlashError, apiErrorMessage("Failed to load purchase", err))
		}
		h.backToIndex(c)
		return
	}

	c.HTML(http.StatusOK, "purchase.html", purchaseDetail{
		purchaseRow: newPurchaseRows([]domain.Purchase{*p})[0],
		Name:        p.CustomerName,
		Surname:     p.CustomerSurname,
		FullProduct: p.ProductName,
		ReceiptPath: p.ReceiptPath,
	})
}

// Clear drops the result set
func (h *Handler) Clear(c *gin.Context) {
	sess := h.sessions.Get(c)
	sess.Lock()
	sess.Reset()
	sess.Unlock()

	h.backToIndex(c)
}

// RequestDelete asks for confirmation before deleting a shown purchase
func (h *Handler) RequestDelete(c *gin.Context) {
	sess := h.sessions.Get(c)
	sess.Lock()
	defer sess.Unlock()
	defer h.backToIndex(c)

	id, ok := pathID(c, sess)
	if !ok {
		return
	}
	if sess.Shows(id) {
		sess.PendingDeletes[id] = true
	}
}

// CancelDelete withdraws a pending confirmation
func (h *Handler) CancelDelete(c *gin.Context) {
	sess := h.sessions.Get(c)
	sess.Lock()
	defer sess.Unlock()
	defer h.backToIndex(c)

	if id, ok := pathID(c, sess); ok {
		delete(sess.PendingDeletes, id)
	}
}

// ConfirmDelete deletes a purchase whose deletion was requested, then
// re-runs the last search
func (h *Handler) ConfirmDelete(c *gin.Context) {
	sess := h.sessions.Get(c)
	sess.Lock()
	defer sess.Unlock()
	defer h.backToIndex(c)

	id, ok := pathID(c, sess)
	if !ok || !sess.PendingDeletes[id] {
		return
	}
	delete(sess.PendingDeletes, id)

	ctx := c.Request.Context()
	if err := h.api.DeletePurchase(ctx, id); err != nil {
		logging.LogError(h.logger, "webui", "ConfirmDelete", "delete purchase", id, err)
		sess.AddFlash(FlashError, apiErrorMessage("Failed to delete purchase", err))
		return
	}
	sess.AddFlash(FlashSuccess, msgDeleted)

	if sess.LastFilter == nil {
		return
	}
	purchases, err := h.api.SearchPurchases(ctx, *sess.LastFilter)
	if err != nil {
		logging.LogError(h.logger, "webui", "ConfirmDelete", "refresh search", nil, err)
		sess.AddFlash(FlashError, apiErrorMessage("Search failed", err))
		sess.Results = removePurchase(sess.Results, id)
		return
	}
	sess.Results = purchases
}

// ExportCSV downloads the shown results as CSV
func (h *Handler) ExportCSV(c *gin.Context) {
	purchases, ok := h.exportable(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, purchases); err != nil {
		logging.LogError(h.logger, "webui", "ExportCSV", "write csv", nil, err)
		c.String(http.StatusInternalServerError, "Export failed: %v", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="purchases_export.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportXLSX downloads the shown results as a spreadsheet
func (h *Handler) ExportXLSX(c *gin.Context) {
	purchases, ok := h.exportable(c)
	if !ok {
		return
	}

	data, err := XLSX(purchases)
	if err != nil {
		logging.LogError(h.logger, "webui", "ExportXLSX", "write xlsx", nil, err)
		c.String(http.StatusInternalServerError, "Export failed: %v", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="purchases_export.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ExportSummary shows the text summary of the shown results
func (h *Handler) ExportSummary(c *gin.Context) {
	purchases, ok := h.exportable(c)
	if !ok {
		return
	}
	c.String(http.StatusOK, Summary(purchases))
}

// exportable returns the shown results. When there are none it queues a
// warning, redirects and reports false.
func (h *Handler) exportable(c *gin.Context) ([]domain.Purchase, bool) {
	sess := h.sessions.Get(c)
	sess.Lock()
	defer sess.Unlock()

	purchases := sess.Visible()
	if len(purchases) == 0 {
		sess.AddFlash(FlashWarning, msgNothingExport)
		h.backToIndex(c)
		return nil, false
	}
	return purchases, true
}

func (h *Handler) backToIndex(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

// pathID parses :id, queueing an error when it is not a number
func pathID(c *gin.Context, sess *Session) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		sess.AddFlash(FlashError, msgInvalidID)
		return 0, false
	}
	return id, true
}

func removePurchase(purchases []domain.Purchase, id int64) []domain.Purchase {
	out := make([]domain.Purchase, 0, len(purchases))
	for _, p := range purchases {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

// apiErrorMessage turns a client error into the message shown to the user
func apiErrorMessage(action string, err error) string {
	if errors.Is(err, client.ErrUnavailable) {
		return "Connection error: " + err.Error()
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("%s: %s", action, apiErr.Detail)
	}
	return "Unexpected error: " + err.Error()
}
