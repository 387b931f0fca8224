package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"sneakerhead/internal/models"
	"sneakerhead/internal/repositories"

	"github.com/tealeg/xlsx"
	"go.uber.org/zap"
)

const timeLayout = "2006-01-02 15:04:05"

var (
	productHeaders = []string{
		"ID", "Name", "Brand", "Category", "Price", "OriginalPrice", "Stock", "InStock",
		"Active", "Trending", "New", "Rating", "Reviews", "Image", "Description", "CreatedAt",
	}
	orderHeaders = []string{
		"OrderNumber", "ID", "UserID", "ShipTo", "Status", "Items", "Subtotal", "Tax",
		"Shipping", "Discount", "Total", "PaymentMethod", "CreatedAt",
	}
)

// ImportResult reports what a spreadsheet import did.
type ImportResult struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// ExportService reads and writes admin spreadsheets.
type ExportService struct {
	store    *repositories.Store
	products *ProductService
	log      *zap.Logger
}

func NewExportService(store *repositories.Store, products *ProductService, log *zap.Logger) *ExportService {
	return &ExportService{store: store, products: products, log: log}
}

func addRow(sheet *xlsx.Sheet, values ...interface{}) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetValue(v)
	}
}

func headerRow(sheet *xlsx.Sheet, headers []string) {
	row := sheet.AddRow()
	for _, h := range headers {
		row.AddCell().SetValue(h)
	}
}

// Products writes every product, active or not, as an .xlsx workbook.
func (s *ExportService) Products(ctx context.Context, w io.Writer) error {
	products, err := s.store.Products.GetAll(ctx)
	if err != nil {
		return err
	}
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	headerRow(sheet, productHeaders)
	for _, p := range products {
		addRow(sheet,
			p.ID, p.Name, p.Brand, p.Category, p.Price, p.OriginalPrice, p.Stock, p.InStock,
			p.IsActive, p.Trending, p.IsNew, p.Rating, p.Reviews, p.Image, p.Description,
			p.CreatedAt.Format(timeLayout),
		)
	}
	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write products workbook: %w", err)
	}
	return nil
}

// Orders writes every order as an .xlsx workbook, newest first.
func (s *ExportService) Orders(ctx context.Context, w io.Writer) error {
	orders, err := s.store.Orders.GetAll(ctx)
	if err != nil {
		return err
	}
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	headerRow(sheet, orderHeaders)
	for _, o := range orders {
		units := 0
		for _, item := range o.Items {
			units += item.Quantity
		}
		addRow(sheet,
			o.OrderNumber, o.ID, o.UserID, o.ShippingAddress.Name, string(o.Status), units,
			o.Subtotal, o.Tax, o.Shipping, o.Discount, o.Total, o.PaymentMethod,
			o.CreatedAt.Format(timeLayout),
		)
	}
	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write orders workbook: %w", err)
	}
	return nil
}

// ImportProducts creates one product per data row of the first sheet. The
// columns follow the product export; ID, InStock and CreatedAt are ignored.
// Rows that fail validation are skipped and reported.
func (s *ExportService) ImportProducts(ctx context.Context, data []byte) (*ImportResult, error) {
	file, err := xlsx.OpenReaderAt(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse workbook: %w", err)
	}
	if len(file.Sheets) == 0 || len(file.Sheets[0].Rows) < 2 {
		return nil, fmt.Errorf("workbook is empty or missing header row")
	}

	result := &ImportResult{}
	for i, row := range file.Sheets[0].Rows[1:] {
		get := func(index int) string {
			if index < len(row.Cells) {
				return strings.TrimSpace(row.Cells[index].String())
			}
			return ""
		}
		price, err := strconv.ParseFloat(get(4), 64)
		if err != nil {
			result.skip(i+2, "invalid price")
			continue
		}
		originalPrice, _ := strconv.ParseFloat(get(5), 64)
		stock, _ := strconv.Atoi(get(6))
		rating, _ := strconv.ParseFloat(get(11), 64)
		reviews, _ := strconv.Atoi(get(12))

		product := &models.Product{
			Name:          get(1),
			Brand:         get(2),
			Category:      get(3),
			Price:         price,
			OriginalPrice: originalPrice,
			Stock:         stock,
			Trending:      parseBool(get(9)),
			IsNew:         parseBool(get(10)),
			Rating:        rating,
			Reviews:       reviews,
			Image:         get(13),
			Description:   get(14),
		}
		if err := s.products.CreateProduct(ctx, product); err != nil {
			result.skip(i+2, err.Error())
			continue
		}
		result.Created++
	}
	s.log.Info("products imported", zap.Int("created", result.Created), zap.Int("skipped", result.Skipped))
	return result, nil
}

func (r *ImportResult) skip(line int, reason string) {
	r.Skipped++
	r.Errors = append(r.Errors, fmt.Sprintf("row %d: %s", line, reason))
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.ToLower(s))
	return err == nil && b
}
