package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/menucraft/menucraft/internal/models"
	"github.com/menucraft/menucraft/internal/storage"
	"gorm.io/gorm"
)

type MenuRepository struct {
	db *storage.DB
}

func NewMenuRepository(db *storage.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

func (r *MenuRepository) Create(ctx context.Context, menu *models.Menu) error {
	return r.db.DB.WithContext(ctx).Create(menu).Error
}

func (r *MenuRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Menu, error) {
	var menu models.Menu
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&menu).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &menu, err
}

// Retrieves a menu with its categories and items, ordered for display.
func (r *MenuRepository) FindBySlug(ctx context.Context, slug string) (*models.Menu, error) {
	var menu models.Menu
	err := r.db.DB.WithContext(ctx).
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("menu_categories.sort_order ASC")
		}).
		Preload("Categories.Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("menu_items.sort_order ASC")
		}).
		Where("slug = ?", slug).
		First(&menu).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &menu, err
}

func (r *MenuRepository) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.Menu, error) {
	var menus []models.Menu
	err := r.db.DB.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC").
		Find(&menus).Error

	return menus, err
}

func (r *MenuRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.DB.WithContext(ctx).
		Model(&models.Menu{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *MenuRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Menu{}).Error
}

// Counts menus under a tenant (quota category "menus").
func (r *MenuRepository) CountByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.Menu{}).
		Where("restaurant_id = ?", restaurantID).
		Count(&count).Error

	return count, err
}

// Counts items across all menus of a tenant (quota category "menuItems").
// Items hang off categories, categories off menus, so this is a two-level join.
func (r *MenuRepository) CountItemsByRestaurant(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.MenuItem{}).
		Joins("JOIN menu_categories ON menu_categories.id = menu_items.category_id").
		Joins("JOIN menus ON menus.id = menu_categories.menu_id").
		Where("menus.restaurant_id = ?", restaurantID).
		Count(&count).Error

	return count, err
}

func (r *MenuRepository) CreateCategory(ctx context.Context, category *models.MenuCategory) error {
	return r.db.DB.WithContext(ctx).Create(category).Error
}

func (r *MenuRepository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.MenuCategory, error) {
	var category models.MenuCategory
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&category).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &category, err
}

func (r *MenuRepository) ListCategories(ctx context.Context, menuID uuid.UUID) ([]models.MenuCategory, error) {
	var categories []models.MenuCategory
	err := r.db.DB.WithContext(ctx).
		Where("menu_id = ?", menuID).
		Order("sort_order ASC").
		Find(&categories).Error

	return categories, err
}

func (r *MenuRepository) UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.DB.WithContext(ctx).
		Model(&models.MenuCategory{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *MenuRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.MenuCategory{}).Error
}

func (r *MenuRepository) CreateItem(ctx context.Context, item *models.MenuItem) error {
	return r.db.DB.WithContext(ctx).Create(item).Error
}

func (r *MenuRepository) FindItemByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&item).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &item, err
}

func (r *MenuRepository) ListItems(ctx context.Context, categoryID uuid.UUID) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.db.DB.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("sort_order ASC").
		Find(&items).Error

	return items, err
}

func (r *MenuRepository) UpdateItem(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.DB.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *MenuRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.MenuItem{}).Error
}
