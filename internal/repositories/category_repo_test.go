package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookmart/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

var categoryTestColumns = []string{"id", "name", "description", "slug", "is_active", "display_order", "parent_id", "created_at", "updated_at"}

func strPtr(s string) *string {
	return &s
}

type CategoryRepoTestSuite struct {
	suite.Suite
	mock       pgxmock.PgxPoolIface
	repo       CategoryRepository
	categoryID uuid.UUID
	context    context.Context
}

func (suite *CategoryRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewCategoryRepo(mock)
	suite.categoryID = uuid.New()
	suite.context = context.Background()
}

func (suite *CategoryRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestCategoryRepoTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryRepoTestSuite))
}

func (suite *CategoryRepoTestSuite) TestCreate_Success() {
	category := &models.Category{
		ID:           suite.categoryID,
		Name:         "Fiction",
		Description:  strPtr("Narrative works"),
		Slug:         "fiction",
		IsActive:     true,
		DisplayOrder: 1,
	}

	suite.mock.ExpectExec(`
		INSERT INTO categories \(id, name, description, slug, is_active, display_order, parent_id, created_at, updated_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, NOW\(\), NOW\(\)\)
	`).WithArgs(category.ID, category.Name, category.Description, category.Slug,
		category.IsActive, category.DisplayOrder, category.ParentID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, category)
	assert.NoError(suite.T(), err)
}

func (suite *CategoryRepoTestSuite) TestCreate_DuplicateSlug() {
	category := &models.Category{
		ID:       suite.categoryID,
		Name:     "Fiction",
		Slug:     "fiction",
		IsActive: true,
	}

	suite.mock.ExpectExec(`
		INSERT INTO categories \(id, name, description, slug, is_active, display_order, parent_id, created_at, updated_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, NOW\(\), NOW\(\)\)
	`).WithArgs(category.ID, category.Name, category.Description, category.Slug,
		category.IsActive, category.DisplayOrder, category.ParentID).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "categories_slug_key"})

	err := suite.repo.Create(suite.context, category)
	assert.ErrorIs(suite.T(), err, models.ErrDuplicateSlug)
}

func (suite *CategoryRepoTestSuite) TestCreate_CheckViolation() {
	category := &models.Category{
		ID:       suite.categoryID,
		Name:     "Fiction",
		Slug:     "fiction",
		IsActive: true,
		ParentID: &suite.categoryID,
	}

	suite.mock.ExpectExec(`
		INSERT INTO categories \(id, name, description, slug, is_active, display_order, parent_id, created_at, updated_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, NOW\(\), NOW\(\)\)
	`).WithArgs(category.ID, category.Name, category.Description, category.Slug,
		category.IsActive, category.DisplayOrder, category.ParentID).
		WillReturnError(&pgconn.PgError{Code: "23514", ConstraintName: "prevent_self_parent"})

	err := suite.repo.Create(suite.context, category)
	assert.ErrorIs(suite.T(), err, models.ErrConstraintViolation)
}

func (suite *CategoryRepoTestSuite) TestGetByID_Success() {
	now := time.Now()

	suite.mock.ExpectQuery(`SELECT id, name, description, slug, is_active, display_order, parent_id, created_at, updated_at FROM categories WHERE id = \$1`).
		WithArgs(suite.categoryID).
		WillReturnRows(pgxmock.NewRows(categoryTestColumns).
			AddRow(suite.categoryID, "Fiction", strPtr("Narrative works"), "fiction", true, 1, (*uuid.UUID)(nil), now, now))

	category, err := suite.repo.GetByID(suite.context, suite.categoryID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.categoryID, category.ID)
	assert.Equal(suite.T(), "Fiction", category.Name)
	assert.Equal(suite.T(), "fiction", category.Slug)
	assert.True(suite.T(), category.IsActive)
	assert.Nil(suite.T(), category.ParentID)
}

func (suite *CategoryRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`SELECT id, name, description, slug, is_active, display_order, parent_id, created_at, updated_at FROM categories WHERE id = \$1`).
		WithArgs(suite.categoryID).
		WillReturnError(pgx.ErrNoRows)

	category, err := suite.repo.GetByID(suite.context, suite.categoryID)
	assert.ErrorIs(suite.T(), err, models.ErrNotFound)
	assert.Nil(suite.T(), category)
}

func (suite *CategoryRepoTestSuite) TestGetBySlug_Success() {
	now := time.Now()
	parentID := uuid.New()

	suite.mock.ExpectQuery(`SELECT id, name, description, slug, is_active, display_order, parent_id, created_at, updated_at FROM categories WHERE slug = \$1`).
		WithArgs("mystery").
		WillReturnRows(pgxmock.NewRows(categoryTestColumns).
			AddRow(suite.categoryID, "Mystery", (*string)(nil), "mystery", true, 2, &parentID, now, now))

	category, err := suite.repo.GetBySlug(suite.context, "mystery")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Mystery", category.Name)
	assert.Equal(suite.T(), parentID, *category.ParentID)
	assert.Nil(suite.T(), category.Description)
}

func (suite *CategoryRepoTestSuite) TestGetForUpdateTx_LocksRow() {
	now := time.Now()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT id, name, description, slug, is_active, display_order, parent_id, created_at, updated_at FROM categories WHERE id = \$1 FOR UPDATE`).
		WithArgs(suite.categoryID).
		WillReturnRows(pgxmock.NewRows(categoryTestColumns).
			AddRow(suite.categoryID, "Fiction", (*string)(nil), "fiction", true, 0, (*uuid.UUID)(nil), now, now))

	tx, err := suite.mock.Begin(suite.context)
	assert.NoError(suite.T(), err)

	category, err := suite.repo.GetForUpdateTx(suite.context, tx, suite.categoryID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Fiction", category.Name)
}

func (suite *CategoryRepoTestSuite) TestUpdateTx_Success() {
	category := &models.Category{
		ID:           suite.categoryID,
		Name:         "Fiction",
		Slug:         "fiction",
		IsActive:     true,
		DisplayOrder: 3,
	}

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`
		UPDATE categories
		SET name = \$1, description = \$2, slug = \$3, is_active = \$4, display_order = \$5, parent_id = \$6, updated_at = NOW\(\)
		WHERE id = \$7
	`).WithArgs(category.Name, category.Description, category.Slug,
		category.IsActive, category.DisplayOrder, category.ParentID, category.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := suite.mock.Begin(suite.context)
	assert.NoError(suite.T(), err)

	err = suite.repo.UpdateTx(suite.context, tx, category)
	assert.NoError(suite.T(), err)
}

func (suite *CategoryRepoTestSuite) TestUpdateTx_NotFound() {
	category := &models.Category{
		ID:       suite.categoryID,
		Name:     "Ghost",
		Slug:     "ghost",
		IsActive: true,
	}

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`
		UPDATE categories
		SET name = \$1, description = \$2, slug = \$3, is_active = \$4, display_order = \$5, parent_id = \$6, updated_at = NOW\(\)
		WHERE id = \$7
	`).WithArgs(category.Name, category.Description, category.Slug,
		category.IsActive, category.DisplayOrder, category.ParentID, category.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := suite.mock.Begin(suite.context)
	assert.NoError(suite.T(), err)

	err = suite.repo.UpdateTx(suite.context, tx, category)
	assert.ErrorIs(suite.T(), err, models.ErrNotFound)
}

func (suite *CategoryRepoTestSuite) TestHasActiveChildrenTx_True() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM categories WHERE parent_id = \$1 AND is_active = TRUE`).
		WithArgs(suite.categoryID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))

	tx, err := suite.mock.Begin(suite.context)
	assert.NoError(suite.T(), err)

	hasActive, err := suite.repo.HasActiveChildrenTx(suite.context, tx, suite.categoryID)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), hasActive)
}

func (suite *CategoryRepoTestSuite) TestHasActiveChildrenTx_False() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM categories WHERE parent_id = \$1 AND is_active = TRUE`).
		WithArgs(suite.categoryID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))

	tx, err := suite.mock.Begin(suite.context)
	assert.NoError(suite.T(), err)

	hasActive, err := suite.repo.HasActiveChildrenTx(suite.context, tx, suite.categoryID)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), hasActive)
}

func (suite *CategoryRepoTestSuite) TestDelete_Success() {
	suite.mock.ExpectExec(`DELETE FROM categories WHERE id = \$1`).
		WithArgs(suite.categoryID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.Delete(suite.context, suite.categoryID)
	assert.NoError(suite.T(), err)
}

func (suite *CategoryRepoTestSuite) TestDelete_NotFound() {
	suite.mock.ExpectExec(`DELETE FROM categories WHERE id = \$1`).
		WithArgs(suite.categoryID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := suite.repo.Delete(suite.context, suite.categoryID)
	assert.ErrorIs(suite.T(), err, models.ErrNotFound)
}

func (suite *CategoryRepoTestSuite) TestList_OrderedByDisplayOrder() {
	now := time.Now()

	rows := pgxmock.NewRows(categoryTestColumns).
		AddRow(uuid.New(), "Fiction", (*string)(nil), "fiction", true, 1, (*uuid.UUID)(nil), now, now).
		AddRow(uuid.New(), "Science", (*string)(nil), "science", true, 2, (*uuid.UUID)(nil), now, now)

	suite.mock.ExpectQuery(`
		SELECT id, name, description, slug, is_active, display_order, parent_id, created_at, updated_at
		FROM categories
		ORDER BY display_order ASC, name ASC
		LIMIT \$1 OFFSET \$2
	`).WithArgs(50, 0).
		WillReturnRows(rows)

	categories, err := suite.repo.List(suite.context, 50, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), categories, 2)
	assert.Equal(suite.T(), "Fiction", categories[0].Name)
	assert.Equal(suite.T(), "Science", categories[1].Name)
}

func (suite *CategoryRepoTestSuite) TestListChildren_Success() {
	now := time.Now()
	parentID := suite.categoryID

	rows := pgxmock.NewRows(categoryTestColumns).
		AddRow(uuid.New(), "Computers", (*string)(nil), "computers", true, 1, &parentID, now, now).
		AddRow(uuid.New(), "Audio", (*string)(nil), "audio", true, 2, &parentID, now, now)

	suite.mock.ExpectQuery(`
		SELECT id, name, description, slug, is_active, display_order, parent_id, created_at, updated_at
		FROM categories
		WHERE parent_id = \$1
		ORDER BY display_order ASC, name ASC
	`).WithArgs(parentID).
		WillReturnRows(rows)

	children, err := suite.repo.ListChildren(suite.context, parentID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), children, 2)
	assert.Equal(suite.T(), "Computers", children[0].Name)
}

func (suite *CategoryRepoTestSuite) TestCount_Success() {
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM categories`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(7))

	count, err := suite.repo.Count(suite.context)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 7, count)
}

func (suite *CategoryRepoTestSuite) TestCountByParent_Success() {
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM categories WHERE parent_id = \$1`).
		WithArgs(suite.categoryID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	count, err := suite.repo.CountByParent(suite.context, suite.categoryID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 3, count)
}

func (suite *CategoryRepoTestSuite) TestCreate_DatabaseError() {
	category := &models.Category{
		ID:       suite.categoryID,
		Name:     "Fiction",
		Slug:     "fiction",
		IsActive: true,
	}

	suite.mock.ExpectExec(`
		INSERT INTO categories \(id, name, description, slug, is_active, display_order, parent_id, created_at, updated_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, NOW\(\), NOW\(\)\)
	`).WithArgs(category.ID, category.Name, category.Description, category.Slug,
		category.IsActive, category.DisplayOrder, category.ParentID).
		WillReturnError(errors.New("database connection failed"))

	err := suite.repo.Create(suite.context, category)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "database connection failed")
}
