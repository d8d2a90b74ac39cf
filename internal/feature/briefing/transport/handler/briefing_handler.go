// Package handler はbriefingフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"criaconecta_backend/internal/feature/briefing/domain"
	"criaconecta_backend/internal/feature/briefing/domain/entity"
	"criaconecta_backend/internal/feature/briefing/transport/http/dto"
	"criaconecta_backend/internal/feature/briefing/usecase"
	jwtmw "criaconecta_backend/internal/platform/jwt"
)

// BriefingUsecase はブリーフィングライフサイクル操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type BriefingUsecase interface {
	// Create は新しいブリーフィングをpending_paymentステータスで作成します。
	Create(ctx context.Context, requesterID uint, title string, budget float64) (*entity.Briefing, error)
	// InitiateCheckout は決済チェックアウトを作成し、リダイレクトURLを返します。
	InitiateCheckout(ctx context.Context, requesterID, briefingID uint) (*usecase.CheckoutHandle, error)
	// ApplyPaymentCallback は決済プロバイダからの通知を検証・適用します。
	ApplyPaymentCallback(ctx context.Context, values url.Values) (usecase.CallbackResult, error)
	// ApplyWebhookNotification はステータスを含まないwebhook型通知を照会の上で適用します。
	ApplyWebhookNotification(ctx context.Context, values url.Values) (usecase.CallbackResult, error)
	// ListOpen は公開中のブリーフィングを新しい順に返します。
	ListOpen(ctx context.Context) ([]entity.Briefing, error)
	// ListByOwner は指定企業のブリーフィングをステータスで絞って返します。
	ListByOwner(ctx context.Context, companyID uint, status entity.Status) ([]entity.Briefing, error)
}

// BriefingHandler はブリーフィング操作のHTTPリクエストを処理します。
type BriefingHandler struct {
	briefings BriefingUsecase
}

// NewBriefingHandler はBriefingHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタで、外部からBriefingUsecaseを注入します。
func NewBriefingHandler(briefings BriefingUsecase) *BriefingHandler {
	return &BriefingHandler{briefings: briefings}
}

// Create はブリーフィング作成APIエンドポイントを処理します。
// - リクエストJSONをCreateBriefingReqにバインド（バリデーションエラーは400）
// - companyロール以外の作成は403
// - 成功時は201で作成されたブリーフィングを返却
func (h *BriefingHandler) Create(c *gin.Context) {
	var req dto.CreateBriefingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("briefing validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid request"})
		return
	}
	requesterID := c.GetUint(jwtmw.ContextUserID)

	b, err := h.briefings.Create(c.Request.Context(), requesterID, req.Title, req.Budget)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromEntity(b))
}

// Checkout はチェックアウト開始APIエンドポイントを処理します。
// 所有企業のみが呼び出せます。成功時はプロバイダのチェックアウトページURLを返し、
// ブリーフィングのステータスは変更しません。
func (h *BriefingHandler) Checkout(c *gin.Context) {
	briefingID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid briefing id"})
		return
	}
	requesterID := c.GetUint(jwtmw.ContextUserID)

	handle, err := h.briefings.InitiateCheckout(c.Request.Context(), requesterID, uint(briefingID))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CheckoutRes{RedirectURL: handle.RedirectURL})
}

// ListOpen は公開中のブリーフィング一覧APIエンドポイントを処理します。
// 認証不要の読み取り専用射影です。
func (h *BriefingHandler) ListOpen(c *gin.Context) {
	briefings, err := h.briefings.ListOpen(c.Request.Context())
	if err != nil {
		slog.Error("open briefings listing failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "internal error"})
		return
	}
	out := make([]dto.BriefingItem, 0, len(briefings))
	for i := range briefings {
		out = append(out, dto.FromEntity(&briefings[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Dashboard は認証済み企業の自社ブリーフィング一覧APIエンドポイントを処理します。
// クエリパラメータstatusでpending_payment/activeを絞り込みます（省略時はpending_payment）。
func (h *BriefingHandler) Dashboard(c *gin.Context) {
	status := entity.Status(c.DefaultQuery("status", string(entity.StatusPendingPayment)))
	requesterID := c.GetUint(jwtmw.ContextUserID)

	briefings, err := h.briefings.ListByOwner(c.Request.Context(), requesterID, status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	out := make([]dto.BriefingItem, 0, len(briefings))
	for i := range briefings {
		out = append(out, dto.FromEntity(&briefings[i]))
	}
	c.JSON(http.StatusOK, out)
}

// PaymentFeedback は決済プロバイダからのリダイレクト/コールバックを処理します。
// プロバイダがエラー時に再送ストームを起こさないよう、通知の内容にかかわらず
// 5xxを返すことはありません。解析不能または未知のトークンは記録の上で破棄されます。
func (h *BriefingHandler) PaymentFeedback(c *gin.Context) {
	result, err := h.briefings.ApplyPaymentCallback(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		// インフラ障害や不正状態でもプロバイダへはエラーを伝播しない
		slog.Error("payment callback processing failed", "error", err, "result", result.String())
		c.JSON(http.StatusOK, dto.MessageRes{Message: "notification received"})
		return
	}
	switch result {
	case usecase.CallbackApplied, usecase.CallbackDuplicate:
		c.JSON(http.StatusOK, dto.MessageRes{Message: "payment approved, your job is now active"})
	case usecase.CallbackRejected:
		c.JSON(http.StatusOK, dto.MessageRes{Message: "payment failed or was cancelled"})
	default:
		c.JSON(http.StatusOK, dto.MessageRes{Message: "notification received"})
	}
}

// PaymentWebhook は決済プロバイダからのwebhook通知（topic=payment&id=...）を処理します。
// 通知自体はステータスを含まないため、プロバイダへの照会を経て適用されます。
// PaymentFeedbackと同様、プロバイダへ5xxを返すことはありません。
func (h *BriefingHandler) PaymentWebhook(c *gin.Context) {
	result, err := h.briefings.ApplyWebhookNotification(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		slog.Error("payment webhook processing failed", "error", err, "result", result.String())
	}
	c.Status(http.StatusOK)
}

// writeError はドメインエラーをHTTPステータスに写像します。
func (h *BriefingHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		// リソースの存在有無を含め、詳細は公開しない
		c.JSON(http.StatusForbidden, dto.ErrorRes{Error: "not allowed"})
	case errors.Is(err, domain.ErrBriefingNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorRes{Error: "briefing not found"})
	case errors.Is(err, domain.ErrInvalidState):
		c.JSON(http.StatusConflict, dto.ErrorRes{Error: "operation not valid for current briefing status"})
	case errors.Is(err, domain.ErrGateway):
		c.JSON(http.StatusBadGateway, dto.ErrorRes{Error: "payment provider unavailable, please retry"})
	default:
		slog.Error("briefing operation failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "internal error"})
	}
}
