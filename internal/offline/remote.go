package offline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// StockResult is the outcome of one product's stock decrement on the
// remote side. Failed decrements never fail the sale; they are collected
// here so the caller can log them.
type StockResult struct {
	ProductID string `json:"product_id"`
	Applied   bool   `json:"applied"`
	Reason    string `json:"reason,omitempty"`
}

// SubmitResult is the remote service's answer to a submission.
type SubmitResult struct {
	TransactionID string
	ReceiptNumber string
	Replayed      bool
	StockResults  []StockResult
}

// RemoteService accepts a queued transaction, persists it and adjusts
// stock. A submission error means the sale was not recorded and the
// record should be marked failed.
type RemoteService interface {
	SubmitTransaction(ctx context.Context, txn *QueuedTransaction) (*SubmitResult, error)
}

// HTTPRemote talks to the DukaPOS API. The queued transaction's id is
// sent as client_tx_id so a retried submission after a lost
// acknowledgment is answered with the stored transaction instead of a
// duplicate.
type HTTPRemote struct {
	baseURL    string
	token      string
	locationID string
	client     *http.Client
	log        *logrus.Logger
}

// NewHTTPRemote creates a remote bound to one API and store location.
func NewHTTPRemote(baseURL, token, locationID string, log *logrus.Logger) *HTTPRemote {
	return &HTTPRemote{
		baseURL:    baseURL,
		token:      token,
		locationID: locationID,
		client:     &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
}

type submitItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitType  string  `json:"unit_type,omitempty"`
	UnitPrice float64 `json:"unit_price"`
}

type submitPayload struct {
	ClientTxID    string       `json:"client_tx_id"`
	CustomerID    *string      `json:"customer_id,omitempty"`
	ReceiptNumber string       `json:"receipt_number,omitempty"`
	PaymentMethod string       `json:"payment_method"`
	IsCredit      bool         `json:"is_credit"`
	Discount      float64      `json:"discount"`
	ServiceFee    float64      `json:"service_fee"`
	DeliveryFee   float64      `json:"delivery_fee"`
	Notes         *string      `json:"notes,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	Items         []submitItem `json:"items"`
}

type submitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Transaction struct {
			ID            string `json:"id"`
			ReceiptNumber string `json:"receipt_number"`
		} `json:"transaction"`
		Replayed     bool          `json:"replayed"`
		StockResults []StockResult `json:"stock_results"`
	} `json:"data"`
}

// SubmitTransaction posts the sale to the API and decodes the outcome.
func (r *HTTPRemote) SubmitTransaction(ctx context.Context, txn *QueuedTransaction) (*SubmitResult, error) {
	items := make([]submitItem, 0, len(txn.Items))
	for _, item := range txn.Items {
		items = append(items, submitItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitType:  item.UnitType,
			UnitPrice: item.Price.InexactFloat64(),
		})
	}

	payload := submitPayload{
		ClientTxID:    txn.ID,
		CustomerID:    txn.CustomerID,
		ReceiptNumber: txn.ReceiptNumber,
		PaymentMethod: txn.PaymentMethod,
		IsCredit:      txn.IsCredit,
		Discount:      txn.Discount.InexactFloat64(),
		ServiceFee:    txn.ServiceFee.InexactFloat64(),
		DeliveryFee:   txn.DeliveryFee.InexactFloat64(),
		Notes:         txn.Notes,
		CreatedAt:     txn.Timestamp,
		Items:         items,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal transaction: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/api/v1/transactions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.token)
	req.Header.Set("X-Location-ID", r.locationID)
	// Belt and braces on top of client_tx_id
	req.Header.Set("Idempotency-Key", txn.ID)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit transaction: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var decoded submitResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("remote rejected transaction (status %d): %s", resp.StatusCode, decoded.Message)
	}

	return &SubmitResult{
		TransactionID: decoded.Data.Transaction.ID,
		ReceiptNumber: decoded.Data.Transaction.ReceiptNumber,
		Replayed:      decoded.Data.Replayed,
		StockResults:  decoded.Data.StockResults,
	}, nil
}

type productPage struct {
	Success bool `json:"success"`
	Data    struct {
		Items []struct {
			ID             string  `json:"id"`
			Name           string  `json:"name"`
			SKU            string  `json:"sku"`
			Barcode        string  `json:"barcode"`
			RetailPrice    float64 `json:"retail_price"`
			WholesalePrice float64 `json:"wholesale_price"`
			Quantity       int     `json:"quantity"`
		} `json:"items"`
		Pagination struct {
			HasNext bool `json:"has_next"`
		} `json:"pagination"`
	} `json:"data"`
}

// FetchProducts pulls the full catalog for the terminal's location, page
// by page, for the local product cache.
func (r *HTTPRemote) FetchProducts(ctx context.Context) ([]CachedProduct, error) {
	var products []CachedProduct
	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/api/v1/products?page=%d&per_page=100", r.baseURL, page)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+r.token)
		req.Header.Set("X-Location-ID", r.locationID)

		resp, err := r.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch products: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch products: status %d", resp.StatusCode)
		}

		var decoded productPage
		err = json.NewDecoder(resp.Body).Decode(&decoded)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("decode products: %w", err)
		}

		for _, p := range decoded.Data.Items {
			products = append(products, CachedProduct{
				ID:             p.ID,
				Name:           p.Name,
				SKU:            p.SKU,
				Barcode:        p.Barcode,
				RetailPrice:    decimal.NewFromFloat(p.RetailPrice),
				WholesalePrice: decimal.NewFromFloat(p.WholesalePrice),
				Quantity:       p.Quantity,
			})
		}
		if !decoded.Data.Pagination.HasNext {
			return products, nil
		}
	}
}

// Ping checks API reachability via the health endpoint. Used by the
// terminal's reachability probe to feed the Monitor.
func (r *HTTPRemote) Ping(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
