package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"criaconecta_backend/internal/feature/briefing/domain"
	"criaconecta_backend/internal/feature/briefing/usecase"
	"criaconecta_backend/internal/platform/externalapi/mercadopago/dto"
	"criaconecta_backend/internal/shared/ratelimiter"
)

// approvedStatus はプロバイダが決済承認を表すステータス値です。
const approvedStatus = "approved"

// Gateway はMercado Pago外部APIに対するPaymentGateway実装です。
type Gateway struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.RateLimiterInterface
}

// GatewayがPaymentGatewayを実装していることをコンパイル時に検証します。
var _ usecase.PaymentGateway = (*Gateway)(nil)

// NewGateway は指定された設定とHTTPクライアントでGatewayの新しいインスタンスを生成します。
// limiterはnil可（その場合、送信呼び出しのペーシングは行いません）。
func NewGateway(cfg Config, client *http.Client, limiter ratelimiter.RateLimiterInterface) *Gateway {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.mercadopago.com"
	}
	return &Gateway{cfg: cfg, client: client, limiter: limiter}
}

// CreateCheckout はチェックアウトpreferenceを作成し、リダイレクト先URLを返します。
// ブリーフィングIDをexternal_referenceとして埋め込むことで、非同期コールバックを
// 発行元のブリーフィングへ正確に照合できるようにします。
// ネットワーク呼び出しのみでローカル状態は変更しません。再試行は呼び出し元に委ねます。
func (g *Gateway) CreateCheckout(ctx context.Context, req usecase.CheckoutRequest) (*usecase.CheckoutHandle, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("checkout amount must be positive, got %v", req.Amount)
	}

	body := dto.PreferenceRequest{
		Items: []dto.PreferenceItem{{
			Title:      req.Title,
			Quantity:   1,
			UnitPrice:  req.Amount,
			CurrencyID: "BRL",
		}},
		BackURLs: dto.BackURLs{
			Success: req.SuccessURL,
			Failure: req.FailureURL,
		},
		AutoReturn:        approvedStatus,
		ExternalReference: strconv.FormatUint(uint64(req.BriefingID), 10),
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal preference: %w", err)
	}

	u := g.cfg.BaseURL + "/checkout/preferences"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.cfg.AccessToken)
	// 同一リクエストの再送でpreferenceが二重作成されないようにする
	httpReq.Header.Set("X-Idempotency-Key", uuid.NewString())

	if g.limiter != nil {
		g.limiter.WaitIfNeeded()
	}

	res, err := g.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("mercadopago http %d", res.StatusCode)
	}

	var out dto.PreferenceResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.InitPoint == "" {
		return nil, fmt.Errorf("mercadopago: preference response missing init_point")
	}

	return &usecase.CheckoutHandle{
		PreferenceID: out.ID,
		RedirectURL:  out.InitPoint,
	}, nil
}

// ParseCallback は決済後リダイレクトのクエリパラメータを解析します。
// 純粋な解析処理であり、ネットワーク呼び出しも状態変更も行いません。
// 相関トークン（external_reference）とプロバイダの承認判定を抽出し、
// 解析不能な場合はdomain.ErrMalformedNotificationを返します。
func (g *Gateway) ParseCallback(values url.Values) (*usecase.PaymentOutcome, error) {
	ref := values.Get("external_reference")
	if ref == "" {
		return nil, fmt.Errorf("%w: missing external_reference", domain.ErrMalformedNotification)
	}
	id, err := strconv.ParseUint(ref, 10, 32)
	if err != nil || id == 0 {
		return nil, fmt.Errorf("%w: bad external_reference %q", domain.ErrMalformedNotification, ref)
	}

	// Checkout Proはリダイレクトによってcollection_statusを送るが、
	// 構造化されたwebhookボディは保証されないためstatusにもフォールバックする
	status := values.Get("collection_status")
	if status == "" {
		status = values.Get("status")
	}
	if status == "" {
		return nil, fmt.Errorf("%w: missing status", domain.ErrMalformedNotification)
	}

	return &usecase.PaymentOutcome{
		BriefingID: uint(id),
		Approved:   status == approvedStatus,
	}, nil
}

// QueryPayment は決済IDからプロバイダの最新ステータスを照会します。
// webhook通知（topic=payment&id=...）のようにステータスを含まない通知を
// 照合するために使用されます。
func (g *Gateway) QueryPayment(ctx context.Context, paymentID string) (*usecase.PaymentOutcome, error) {
	u := g.cfg.BaseURL + "/v1/payments/" + url.PathEscape(paymentID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.cfg.AccessToken)

	if g.limiter != nil {
		g.limiter.WaitIfNeeded()
	}

	res, err := g.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("mercadopago http %d", res.StatusCode)
	}

	var out dto.PaymentResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, err
	}
	id, err := strconv.ParseUint(out.ExternalReference, 10, 32)
	if err != nil || id == 0 {
		return nil, fmt.Errorf("%w: bad external_reference %q", domain.ErrMalformedNotification, out.ExternalReference)
	}

	return &usecase.PaymentOutcome{
		BriefingID: uint(id),
		Approved:   out.Status == approvedStatus,
	}, nil
}
