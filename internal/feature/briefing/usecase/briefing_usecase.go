// Package usecase はbriefingフィーチャーのビジネスロジック（ジョブライフサイクルエンジン）を実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	authdomain "criaconecta_backend/internal/feature/auth/domain"
	authentity "criaconecta_backend/internal/feature/auth/domain/entity"
	"criaconecta_backend/internal/feature/briefing/domain"
	"criaconecta_backend/internal/feature/briefing/domain/entity"
)

// BriefingRepository はブリーフィングエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type BriefingRepository interface {
	// Create は新しいブリーフィングをストレージに永続化します。
	Create(ctx context.Context, b *entity.Briefing) error

	// FindByID は指定されたIDに一致するブリーフィングを取得します。
	// 存在しない場合、domain.ErrBriefingNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.Briefing, error)

	// UpdateStatus はステータスを単一の条件付きUPDATE（compare-and-set）で
	// fromからtoへ遷移させます。保存されているステータスがfromと異なる場合は
	// domain.ErrStatusConflict、行が存在しない場合はdomain.ErrBriefingNotFoundを返します。
	UpdateStatus(ctx context.Context, id uint, from, to entity.Status) error

	// ListOpen はpending_paymentのブリーフィングを新しい順に返します。
	ListOpen(ctx context.Context) ([]entity.Briefing, error)

	// ListByOwner は指定された企業が所有する、指定ステータスのブリーフィングを返します。
	ListByOwner(ctx context.Context, companyID uint, status entity.Status) ([]entity.Briefing, error)
}

// CheckoutRequest は決済プロバイダへのチェックアウト（preference）作成要求です。
// 動的なマップではなく型付き構造体で受け渡します。
type CheckoutRequest struct {
	// BriefingID は相関トークン（external reference）としてチェックアウトに埋め込まれます。
	BriefingID uint
	// Title は決済画面に表示される品目名です。
	Title string
	// Amount は品目の単価（= ブリーフィングの予算）。正の値であること。
	Amount float64
	// SuccessURL / FailureURL は決済後にプロバイダがリダイレクトする戻り先です。
	SuccessURL string
	FailureURL string
}

// CheckoutHandle は外部プロバイダの決済セッションへの不透明な参照です。
type CheckoutHandle struct {
	// PreferenceID はプロバイダ側のセッション識別子です。
	PreferenceID string
	// RedirectURL はユーザーを送るべきチェックアウトページのURLです。
	RedirectURL string
}

// PaymentOutcome は受信した決済通知から抽出された検証済みの結果です。
type PaymentOutcome struct {
	// BriefingID はチェックアウト作成時に埋め込まれた相関トークンの復元値です。
	BriefingID uint
	// Approved はプロバイダの承認判定です。
	Approved bool
}

// PaymentGateway は外部決済プロバイダを抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/externalapi）ではなくコンシューマー（usecase）が定義します。
type PaymentGateway interface {
	// CreateCheckout はプロバイダにチェックアウトを作成し、リダイレクト先を返します。
	// ネットワーク呼び出しのみでローカル状態は変更しません。
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutHandle, error)

	// ParseCallback は受信した通知（リダイレクトのクエリパラメータ）を検証・解析します。
	// 純粋な解析処理であり、何も変更しません。解析不能な場合は
	// domain.ErrMalformedNotificationを返します。
	ParseCallback(values url.Values) (*PaymentOutcome, error)

	// QueryPayment は決済IDでプロバイダの最新ステータスを照会します。
	// ステータスを含まないwebhook型通知の照合に使用します。
	QueryPayment(ctx context.Context, paymentID string) (*PaymentOutcome, error)
}

// UserDirectory はライフサイクル操作の認可に必要なユーザー参照を抽象化します。
type UserDirectory interface {
	FindByID(ctx context.Context, id uint) (*authentity.User, error)
}

// CreatorAssigner は新規ブリーフィングへのcreator割り当てを抽象化します。
// 本物のマッチングアルゴリズムは別関心事として切り出されており、
// 現状の実装は暫定的なスタブです。
type CreatorAssigner interface {
	FirstCreator(ctx context.Context) (*authentity.User, error)
}

// CallbackResult は決済コールバック適用の結果区分です。
type CallbackResult int

const (
	// CallbackIgnored: 解析不能または未知の相関トークン。記録のみで状態変更なし。
	CallbackIgnored CallbackResult = iota
	// CallbackApplied: pending_payment -> active の遷移を適用した。
	CallbackApplied
	// CallbackDuplicate: 既にactiveだった。冪等な成功として扱う。
	CallbackDuplicate
	// CallbackRejected: プロバイダが承認しなかった。状態変更なし。
	CallbackRejected
)

// String returns the result name for logging.
func (r CallbackResult) String() string {
	switch r {
	case CallbackApplied:
		return "applied"
	case CallbackDuplicate:
		return "duplicate"
	case CallbackRejected:
		return "rejected"
	default:
		return "ignored"
	}
}

// BriefingUsecase はブリーフィングのライフサイクルエンジンです。
// pending_payment -> active の遷移と、その冪等性・所有権検査を司ります。
type BriefingUsecase struct {
	briefings BriefingRepository
	users     UserDirectory
	assigner  CreatorAssigner
	gateway   PaymentGateway
	backURL   string
}

// NewBriefingUsecase はBriefingUsecaseの新しいインスタンスを生成します。
// backURLは決済完了後にプロバイダがリダイレクトする戻り先URLです。
// assignerはnil可（その場合、新規ブリーフィングは未割り当てのまま作成されます）。
func NewBriefingUsecase(briefings BriefingRepository, users UserDirectory, assigner CreatorAssigner, gateway PaymentGateway, backURL string) *BriefingUsecase {
	return &BriefingUsecase{
		briefings: briefings,
		users:     users,
		assigner:  assigner,
		gateway:   gateway,
		backURL:   backURL,
	}
}

// Create は新しいブリーフィングをpending_paymentステータスで作成します。
// - requesterはcompanyロールであること（違反時はdomain.ErrForbidden）
// - titleは空でなく、budgetは0以上であること（違反時はdomain.ErrValidation、何も永続化しない）
// creator割り当てはベストエフォートであり、失敗してもブリーフィング作成は成功します。
func (u *BriefingUsecase) Create(ctx context.Context, requesterID uint, title string, budget float64) (*entity.Briefing, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if budget < 0 {
		return nil, fmt.Errorf("%w: budget must not be negative", domain.ErrValidation)
	}

	requester, err := u.users.FindByID(ctx, requesterID)
	if err != nil {
		if errors.Is(err, authdomain.ErrUserNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	if requester.Role != authentity.RoleCompany {
		return nil, domain.ErrForbidden
	}

	b := &entity.Briefing{
		Title:     strings.TrimSpace(title),
		Budget:    budget,
		Status:    entity.StatusPendingPayment,
		CompanyID: requester.ID,
	}

	// 暫定アサイン: 失敗しても作成は止めない
	if u.assigner != nil {
		if creator, err := u.assigner.FirstCreator(ctx); err == nil {
			b.CreatorID = &creator.ID
		} else {
			slog.Warn("creator assignment skipped", "error", err)
		}
	}

	if err := u.briefings.Create(ctx, b); err != nil {
		return nil, err
	}
	slog.Info("briefing created", "briefing_id", b.ID, "company_id", b.CompanyID, "budget", b.Budget)
	return b, nil
}

// InitiateCheckout は決済プロバイダにチェックアウトを作成し、リダイレクトURLを返します。
// - ブリーフィングが存在すること（domain.ErrBriefingNotFound）
// - requesterが所有企業であること（domain.ErrForbidden）
// - ステータスがpending_paymentであること（domain.ErrInvalidState）
// ステータス自体は変更しません。ゲートウェイ障害時はdomain.ErrGatewayでラップされ、
// ブリーフィングはpending_paymentのまま残り、再試行は安全です。
func (u *BriefingUsecase) InitiateCheckout(ctx context.Context, requesterID, briefingID uint) (*CheckoutHandle, error) {
	b, err := u.briefings.FindByID(ctx, briefingID)
	if err != nil {
		return nil, err
	}
	if b.CompanyID != requesterID {
		return nil, domain.ErrForbidden
	}
	if b.Status != entity.StatusPendingPayment {
		return nil, domain.ErrInvalidState
	}

	handle, err := u.gateway.CreateCheckout(ctx, CheckoutRequest{
		BriefingID: b.ID,
		Title:      "Job: " + b.Title,
		Amount:     b.Budget,
		SuccessURL: u.backURL,
		FailureURL: u.backURL,
	})
	if err != nil {
		slog.Error("checkout creation failed", "error", err, "briefing_id", b.ID)
		return nil, fmt.Errorf("%w: %w", domain.ErrGateway, err)
	}
	slog.Info("checkout created", "briefing_id", b.ID, "preference_id", handle.PreferenceID)
	return handle, nil
}

// ApplyPaymentCallback は決済プロバイダからの通知を検証し、該当ブリーフィングを
// pending_paymentからactiveへ遷移させます。
//
// 遷移の唯一の根拠は、チェックアウト作成時に埋め込まれた相関トークンに紐づく
// プロバイダの承認判定です。クライアントが自己申告するステータスは信用しません。
//
// 冪等性: 同一の承認通知が重複して届いた場合、ストレージ上の遷移は一度だけ
// 適用され、いずれの呼び出しもエラーなく成功を報告します。
// 未知の相関トークンはリプレイ防御として記録のみ行い、決して適用しません。
func (u *BriefingUsecase) ApplyPaymentCallback(ctx context.Context, values url.Values) (CallbackResult, error) {
	outcome, err := u.gateway.ParseCallback(values)
	if err != nil {
		// プロトコル境界で破棄: プロバイダへはエラーを返さない
		slog.Warn("payment callback dropped", "error", err)
		return CallbackIgnored, nil
	}
	return u.applyOutcome(ctx, outcome)
}

// ApplyWebhookNotification はステータスを含まないwebhook型通知
// （topic=payment&id=...）を処理します。プロバイダへ決済ステータスを照会した上で、
// リダイレクト型コールバックと同一の遷移規則を適用します。
// 承認判定の根拠は常にプロバイダへの照会結果であり、通知自体の内容は信用しません。
func (u *BriefingUsecase) ApplyWebhookNotification(ctx context.Context, values url.Values) (CallbackResult, error) {
	if values.Get("topic") != "payment" && values.Get("type") != "payment" {
		slog.Warn("webhook notification with unsupported topic dropped", "topic", values.Get("topic"))
		return CallbackIgnored, nil
	}
	paymentID := values.Get("id")
	if paymentID == "" {
		paymentID = values.Get("data.id")
	}
	if paymentID == "" {
		slog.Warn("webhook notification without payment id dropped")
		return CallbackIgnored, nil
	}

	outcome, err := u.gateway.QueryPayment(ctx, paymentID)
	if err != nil {
		// 照会失敗はプロバイダ側の再送に任せ、ここでは適用しない
		slog.Warn("payment status query failed", "error", err, "payment_id", paymentID)
		return CallbackIgnored, nil
	}
	return u.applyOutcome(ctx, outcome)
}

// applyOutcome は検証済みの決済結果をブリーフィングへ適用します。
// リダイレクト型・webhook型の両経路で共通の遷移規則です。
func (u *BriefingUsecase) applyOutcome(ctx context.Context, outcome *PaymentOutcome) (CallbackResult, error) {
	if !outcome.Approved {
		slog.Info("payment not approved", "briefing_id", outcome.BriefingID)
		return CallbackRejected, nil
	}

	b, err := u.briefings.FindByID(ctx, outcome.BriefingID)
	if err != nil {
		if errors.Is(err, domain.ErrBriefingNotFound) {
			// 第三者由来のトークンは既存ジョブに一致しない限り適用しない
			slog.Warn("payment callback for unknown briefing", "briefing_id", outcome.BriefingID)
			return CallbackIgnored, nil
		}
		return CallbackIgnored, err
	}

	switch b.Status {
	case entity.StatusPendingPayment:
		err := u.briefings.UpdateStatus(ctx, b.ID, entity.StatusPendingPayment, entity.StatusActive)
		if err == nil {
			slog.Info("briefing activated", "briefing_id", b.ID)
			return CallbackApplied, nil
		}
		if errors.Is(err, domain.ErrStatusConflict) {
			// 並行コールバックに敗れた場合は再確認し、activeなら冪等成功
			cur, err2 := u.briefings.FindByID(ctx, b.ID)
			if err2 == nil && cur.Status == entity.StatusActive {
				return CallbackDuplicate, nil
			}
			return CallbackIgnored, domain.ErrInvalidState
		}
		return CallbackIgnored, err

	case entity.StatusActive:
		// 既に適用済み: 重複配信は成功として報告する
		slog.Info("duplicate payment callback", "briefing_id", b.ID)
		return CallbackDuplicate, nil

	default:
		// 閉じた列挙の外にある保存値はScanで弾かれるため通常到達しないが、
		// 将来の状態追加時に黙って成功扱いしないための明示的な拒否
		slog.Error("payment callback for briefing in unexpected status", "briefing_id", b.ID, "status", string(b.Status))
		return CallbackIgnored, domain.ErrInvalidState
	}
}

// ListOpen は公開中（pending_payment）のブリーフィングを新しい順に返します。
func (u *BriefingUsecase) ListOpen(ctx context.Context) ([]entity.Briefing, error) {
	return u.briefings.ListOpen(ctx)
}

// ListByOwner は指定企業のブリーフィングをステータスで絞って返します。
// 読み取り専用の射影であり、ステータスを変更することはありません。
func (u *BriefingUsecase) ListByOwner(ctx context.Context, companyID uint, status entity.Status) ([]entity.Briefing, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status filter", domain.ErrValidation)
	}
	return u.briefings.ListByOwner(ctx, companyID, status)
}
