// Package adapters はbriefingフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"criaconecta_backend/internal/feature/briefing/domain"
	"criaconecta_backend/internal/feature/briefing/domain/entity"
	"criaconecta_backend/internal/feature/briefing/usecase"
)

// briefingMySQL はBriefingRepositoryインターフェースのMySQL実装です。
// GORMを使用してデータベース操作を行います。
type briefingMySQL struct {
	db *gorm.DB
}

// briefingMySQLがBriefingRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.BriefingRepository = (*briefingMySQL)(nil)

// NewBriefingMySQL は指定されたgorm.DB接続でbriefingMySQLの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタです。
func NewBriefingMySQL(db *gorm.DB) *briefingMySQL {
	return &briefingMySQL{db: db}
}

// Create はブリーフィングをデータベースに追加します。
func (r *briefingMySQL) Create(ctx context.Context, b *entity.Briefing) error {
	return r.db.WithContext(ctx).Create(b).Error
}

// FindByID はIDでブリーフィングを取得します。
// 存在しない場合、domain.ErrBriefingNotFoundを返します。
func (r *briefingMySQL) FindByID(ctx context.Context, id uint) (*entity.Briefing, error) {
	var b entity.Briefing
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBriefingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// UpdateStatus はステータス遷移を単一の条件付きUPDATEとして実行します。
//
//	UPDATE briefings SET status = ? WHERE id = ? AND status = ?
//
// WHERE句に現ステータスを含めることで、並行するコールバックが同じ遷移を
// 二重適用できないことをストレージ層で保証します（compare-and-set）。
// 影響行数が0の場合は行の不存在とステータス不一致を区別して、
// domain.ErrBriefingNotFoundまたはdomain.ErrStatusConflictを返します。
func (r *briefingMySQL) UpdateStatus(ctx context.Context, id uint, from, to entity.Status) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Briefing{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&entity.Briefing{}).
			Where("id = ?", id).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrBriefingNotFound
		}
		return domain.ErrStatusConflict
	}
	return nil
}

// ListOpen はpending_paymentのブリーフィングを新しい順に返します。
func (r *briefingMySQL) ListOpen(ctx context.Context) ([]entity.Briefing, error) {
	var briefings []entity.Briefing
	if err := r.db.WithContext(ctx).
		Where("status = ?", entity.StatusPendingPayment).
		Order("id DESC").
		Find(&briefings).Error; err != nil {
		return nil, err
	}
	return briefings, nil
}

// ListByOwner は指定企業が所有する、指定ステータスのブリーフィングを新しい順に返します。
func (r *briefingMySQL) ListByOwner(ctx context.Context, companyID uint, status entity.Status) ([]entity.Briefing, error) {
	var briefings []entity.Briefing
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND status = ?", companyID, status).
		Order("id DESC").
		Find(&briefings).Error; err != nil {
		return nil, err
	}
	return briefings, nil
}
