package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Menu struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	RestaurantID uuid.UUID      `gorm:"type:uuid;index;not null" json:"restaurant_id"`
	Name         string         `gorm:"not null" json:"name"`
	Slug         string         `gorm:"uniqueIndex;not null" json:"slug"`
	Description  string         `json:"description"`
	Currency     string         `gorm:"default:'EUR'" json:"currency"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Categories   []MenuCategory `gorm:"foreignKey:MenuID" json:"categories,omitempty"`
}

func (m *Menu) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (Menu) TableName() string {
	return "menus"
}

type MenuCategory struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	MenuID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"menu_id"`
	Name      string     `gorm:"not null" json:"name"`
	SortOrder int        `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time  `json:"created_at"`
	Items     []MenuItem `gorm:"foreignKey:CategoryID" json:"items,omitempty"`
}

func (c *MenuCategory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (MenuCategory) TableName() string {
	return "menu_categories"
}

type MenuItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CategoryID  uuid.UUID `gorm:"type:uuid;index;not null" json:"category_id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Price       float64   `gorm:"not null;default:0" json:"price"`
	IsAvailable bool      `gorm:"default:true" json:"is_available"`
	SortOrder   int       `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (i *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (MenuItem) TableName() string {
	return "menu_items"
}
