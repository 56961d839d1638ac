package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/celerix-dev/phonebook/pkg/schema"
	"gorm.io/gorm"
)

// personRecord is the SQL row of a person.
type personRecord struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	LegacyID  int    `gorm:"column:legacy_id"`
	Name      string `gorm:"not null;uniqueIndex:idx_persons_name"`
	Number    string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName pins the table to the collection name.
func (personRecord) TableName() string {
	return Collection
}

func (r personRecord) person() schema.Person {
	return schema.Person{ID: r.ID, LegacyID: r.LegacyID, Name: r.Name, Number: r.Number, CreatedAt: r.CreatedAt}
}

// GormStore is a Store backed by a SQL database through GORM.
// Name uniqueness is enforced by a unique index.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open GORM connection. It does not touch the schema;
// call Migrate once before first use.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates the persons table and its unique name index.
func (s *GormStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&personRecord{}); err != nil {
		return fmt.Errorf("migrate %s: %w", Collection, err)
	}
	return nil
}

func (s *GormStore) Find(ctx context.Context) ([]schema.Person, error) {
	var records []personRecord
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("find %s: %w", Collection, err)
	}

	people := make([]schema.Person, 0, len(records))
	for _, r := range records {
		people = append(people, r.person())
	}
	return people, nil
}

func (s *GormStore) FindByID(ctx context.Context, id string) (*schema.Person, error) {
	id, err := normalizeID(id)
	if err != nil {
		return nil, err
	}

	var record personRecord
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find person %s: %w", id, err)
	}
	person := record.person()
	return &person, nil
}

func (s *GormStore) Insert(ctx context.Context, p *schema.Person) error {
	if err := assignID(p); err != nil {
		return err
	}

	record := personRecord{ID: p.ID, LegacyID: p.LegacyID, Name: p.Name, Number: p.Number, CreatedAt: p.CreatedAt}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		if dup := uniqueViolation(err); dup != nil {
			return dup
		}
		return fmt.Errorf("insert person: %w", err)
	}
	p.CreatedAt = record.CreatedAt
	return nil
}

func (s *GormStore) Update(ctx context.Context, id, name, number string) (*schema.Person, error) {
	id, err := normalizeID(id)
	if err != nil {
		return nil, err
	}

	var record personRecord
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&personRecord{}).Where("id = ?", id).Updates(map[string]any{
			"name":   name,
			"number": number,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("id = ?", id).First(&record).Error
	})
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		return nil, ErrNotFound
	case uniqueViolation(err) != nil:
		return nil, uniqueViolation(err)
	default:
		return nil, fmt.Errorf("update person %s: %w", id, err)
	}

	person := record.person()
	return &person, nil
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	id, err := normalizeID(id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&personRecord{}).Error; err != nil {
		return fmt.Errorf("delete person %s: %w", id, err)
	}
	return nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// uniqueViolation names the constraint a duplicate key error broke:
// ErrDuplicateName for the name index, ErrDuplicateID for the primary key,
// nil for anything else. Open leaves gorm's TranslateError off so the driver
// message, which carries the constraint name, reaches this check.
func uniqueViolation(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "idx_persons_name"), strings.Contains(msg, "persons.name"):
		return ErrDuplicateName
	case strings.Contains(msg, "persons_pkey"), strings.Contains(msg, "persons.id"):
		return ErrDuplicateID
	default:
		return nil
	}
}
