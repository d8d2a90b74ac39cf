// Package dto defines data transfer objects for the Mercado Pago API.
package dto

// PreferenceItem represents a single line item in a checkout preference.
type PreferenceItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id,omitempty"`
}

// BackURLs holds the URLs the provider redirects to after payment.
type BackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
}

// PreferenceRequest represents the JSON body for POST /checkout/preferences.
type PreferenceRequest struct {
	Items             []PreferenceItem `json:"items"`
	BackURLs          BackURLs         `json:"back_urls"`
	AutoReturn        string           `json:"auto_return"`
	ExternalReference string           `json:"external_reference"`
}

// PreferenceResponse represents the JSON response from POST /checkout/preferences.
type PreferenceResponse struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
	Message   string `json:"message,omitempty"`
}

// PaymentResponse represents the JSON response from GET /v1/payments/{id}.
type PaymentResponse struct {
	ID                int64  `json:"id"`
	Status            string `json:"status"`
	ExternalReference string `json:"external_reference"`
	Message           string `json:"message,omitempty"`
}
