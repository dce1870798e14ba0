package repositories

import (
	"context"
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

var bookCategoryTestColumns = []string{"id", "book_id", "category_id", "primary", "relevance_score", "added_date"}

var bookCategoryDetailTestColumns = []string{"id", "book_id", "category_id", "primary", "relevance_score", "added_date", "title", "name"}

type BookCategoryRepoTestSuite struct {
	suite.Suite
	mock       pgxmock.PgxPoolIface
	repo       BookCategoryRepository
	linkID     uuid.UUID
	bookID     uuid.UUID
	categoryID uuid.UUID
	context    context.Context
}

func (suite *BookCategoryRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewBookCategoryRepo(mock)
	suite.linkID = uuid.New()
	suite.bookID = uuid.New()
	suite.categoryID = uuid.New()
	suite.context = context.Background()
}

func (suite *BookCategoryRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestBookCategoryRepoTestSuite(t *testing.T) {
	suite.Run(t, new(BookCategoryRepoTestSuite))
}

func (suite *BookCategoryRepoTestSuite) TestCreateTx_Success() {
	link := &models.BookCategory{
		ID:             suite.linkID,
		BookID:         suite.bookID,
		CategoryID:     suite.categoryID,
		Primary:        true,
		RelevanceScore: 9.5,
	}

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`
		INSERT INTO book_categories \(id, book_id, category_id, "primary", relevance_score, added_date\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, NOW\(\)\)
	`).WithArgs(link.ID, link.BookID, link.CategoryID, link.Primary, link.RelevanceScore).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := suite.mock.Begin(suite.context)
	assert.NoError(suite.T(), err)

	err = suite.repo.CreateTx(suite.context, tx, link)
	assert.NoError(suite.T(), err)
}

func (suite *BookCategoryRepoTestSuite) TestCreateTx_DuplicatePair() {
	link := &models.BookCategory{
		ID:         suite.linkID,
		BookID:     suite.bookID,
		CategoryID: suite.categoryID,
	}

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`
		INSERT INTO book_categories \(id, book_id, category_id, "primary", relevance_score, added_date\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, NOW\(\)\)
	`).WithArgs(link.ID, link.BookID, link.CategoryID, link.Primary, link.RelevanceScore).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "book_categories_book_id_category_id_key"})

	tx, err := suite.mock.Begin(suite.context)
	assert.NoError(suite.T(), err)

	err = suite.repo.CreateTx(suite.context, tx, link)
	assert.ErrorIs(suite.T(), err, models.ErrDuplicateAssociation)
}

func (suite *BookCategoryRepoTestSuite) TestCreateTx_SecondPrimaryHitsPartialIndex() {
	link := &models.BookCategory{
		ID:         suite.linkID,
		BookID:     suite.bookID,
		CategoryID: suite.categoryID,
		Primary:    true,
	}

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`
		INSERT INTO book_categories \(id, book_id, category_id, "primary", relevance_score, added_date\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, NOW\(\)\)
	`).WithArgs(link.ID, link.BookID, link.CategoryID, link.Primary, link.RelevanceScore).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "unique_primary_category_per_book"})

	tx, err := suite.mock.Begin(suite.context)
	assert.NoError(suite.T(), err)

	err = suite.repo.CreateTx(suite.context, tx, link)
	assert.ErrorIs(suite.T(), err, models.ErrConstraintViolation)
}

func (suite *BookCategoryRepoTestSuite) TestUpdateTx_Success() {
	link := &models.BookCategory{
		ID:             suite.linkID,
		Primary:        false,
		RelevanceScore: 4.0,
	}

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`
		UPDATE book_categories
		SET "primary" = \$1, relevance_score = \$2
		WHERE id = \$3
	`).WithArgs(link.Primary, link.RelevanceScore, link.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := suite.mock.Begin(suite.context)
	assert.NoError(suite.T(), err)

	err = suite.repo.UpdateTx(suite.context, tx, link)
	assert.NoError(suite.T(), err)
}

func (suite *BookCategoryRepoTestSuite) TestUpdateTx_NotFound() {
	link := &models.BookCategory{
		ID:             suite.linkID,
		Primary:        true,
		RelevanceScore: 7.0,
	}

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`
		UPDATE book_categories
		SET "primary" = \$1, relevance_score = \$2
		WHERE id = \$3
	`).WithArgs(link.Primary, link.RelevanceScore, link.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := suite.mock.Begin(suite.context)
	assert.NoError(suite.T(), err)

	err = suite.repo.UpdateTx(suite.context, tx, link)
	assert.ErrorIs(suite.T(), err, models.ErrNotFound)
}

func (suite *BookCategoryRepoTestSuite) TestGetByID_Success() {
	suite.mock.ExpectQuery(`SELECT id, book_id, category_id, "primary", relevance_score, added_date FROM book_categories WHERE id = \$1`).
		WithArgs(suite.linkID).
		WillReturnRows(pgxmock.NewRows(bookCategoryTestColumns).
			AddRow(suite.linkID, suite.bookID, suite.categoryID, true, 8.5, time.Now()))

	link, err := suite.repo.GetByID(suite.context, suite.linkID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.linkID, link.ID)
	assert.Equal(suite.T(), suite.bookID, link.BookID)
	assert.True(suite.T(), link.Primary)
	assert.Equal(suite.T(), 8.5, link.RelevanceScore)
}

func (suite *BookCategoryRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`SELECT id, book_id, category_id, "primary", relevance_score, added_date FROM book_categories WHERE id = \$1`).
		WithArgs(suite.linkID).
		WillReturnError(pgx.ErrNoRows)

	link, err := suite.repo.GetByID(suite.context, suite.linkID)
	assert.ErrorIs(suite.T(), err, models.ErrNotFound)
	assert.Nil(suite.T(), link)
}

func (suite *BookCategoryRepoTestSuite) TestGetDetailByID_Success() {
	suite.mock.ExpectQuery(`
		SELECT bc.id, bc.book_id, bc.category_id, bc."primary", bc.relevance_score, bc.added_date,
		       b.title, c.name
		FROM book_categories bc
		JOIN books b ON b.id = bc.book_id
		JOIN categories c ON c.id = bc.category_id
		WHERE bc.id = \$1
	`).WithArgs(suite.linkID).
		WillReturnRows(pgxmock.NewRows(bookCategoryDetailTestColumns).
			AddRow(suite.linkID, suite.bookID, suite.categoryID, true, 9.0, time.Now(), "Dune", "Science Fiction"))

	detail, err := suite.repo.GetDetailByID(suite.context, suite.linkID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Dune", detail.BookTitle)
	assert.Equal(suite.T(), "Science Fiction", detail.CategoryName)
	assert.True(suite.T(), detail.Primary)
}

func (suite *BookCategoryRepoTestSuite) TestGetByBookAndCategory_Success() {
	suite.mock.ExpectQuery(`SELECT id, book_id, category_id, "primary", relevance_score, added_date FROM book_categories WHERE book_id = \$1 AND category_id = \$2`).
		WithArgs(suite.bookID, suite.categoryID).
		WillReturnRows(pgxmock.NewRows(bookCategoryTestColumns).
			AddRow(suite.linkID, suite.bookID, suite.categoryID, false, 5.0, time.Now()))

	link, err := suite.repo.GetByBookAndCategory(suite.context, suite.bookID, suite.categoryID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.categoryID, link.CategoryID)
	assert.False(suite.T(), link.Primary)
}

func (suite *BookCategoryRepoTestSuite) TestGetByBookAndCategory_NotFound() {
	suite.mock.ExpectQuery(`SELECT id, book_id, category_id, "primary", relevance_score, added_date FROM book_categories WHERE book_id = \$1 AND category_id = \$2`).
		WithArgs(suite.bookID, suite.categoryID).
		WillReturnError(pgx.ErrNoRows)

	link, err := suite.repo.GetByBookAndCategory(suite.context, suite.bookID, suite.categoryID)
	assert.ErrorIs(suite.T(), err, models.ErrNotFound)
	assert.Nil(suite.T(), link)
}

func (suite *BookCategoryRepoTestSuite) TestDelete_Success() {
	suite.mock.ExpectExec(`DELETE FROM book_categories WHERE id = \$1`).
		WithArgs(suite.linkID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.Delete(suite.context, suite.linkID)
	assert.NoError(suite.T(), err)
}

func (suite *BookCategoryRepoTestSuite) TestDelete_NotFound() {
	suite.mock.ExpectExec(`DELETE FROM book_categories WHERE id = \$1`).
		WithArgs(suite.linkID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := suite.repo.Delete(suite.context, suite.linkID)
	assert.ErrorIs(suite.T(), err, models.ErrNotFound)
}

func (suite *BookCategoryRepoTestSuite) TestListByBook_PrimaryFirst() {
	secondaryID := uuid.New()

	rows := pgxmock.NewRows(bookCategoryDetailTestColumns).
		AddRow(suite.linkID, suite.bookID, suite.categoryID, true, 9.0, time.Now(), "Dune", "Science Fiction").
		AddRow(secondaryID, suite.bookID, uuid.New(), false, 6.5, time.Now(), "Dune", "Adventure")

	suite.mock.ExpectQuery(`
		SELECT bc.id, bc.book_id, bc.category_id, bc."primary", bc.relevance_score, bc.added_date,
		       b.title, c.name
		FROM book_categories bc
		JOIN books b ON b.id = bc.book_id
		JOIN categories c ON c.id = bc.category_id
		WHERE bc.book_id = \$1
		ORDER BY bc."primary" DESC, bc.relevance_score DESC
	`).WithArgs(suite.bookID).
		WillReturnRows(rows)

	links, err := suite.repo.ListByBook(suite.context, suite.bookID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), links, 2)
	assert.True(suite.T(), links[0].Primary)
	assert.Equal(suite.T(), "Science Fiction", links[0].CategoryName)
	assert.False(suite.T(), links[1].Primary)
}

func (suite *BookCategoryRepoTestSuite) TestCountPrimaryTx_NoExclusion() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM book_categories WHERE book_id = \$1 AND "primary" = TRUE`).
		WithArgs(suite.bookID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

	tx, err := suite.mock.Begin(suite.context)
	assert.NoError(suite.T(), err)

	count, err := suite.repo.CountPrimaryTx(suite.context, tx, suite.bookID, nil)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, count)
}

func (suite *BookCategoryRepoTestSuite) TestCountPrimaryTx_ExcludesLinkBeingUpdated() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM book_categories WHERE book_id = \$1 AND "primary" = TRUE AND id <> \$2`).
		WithArgs(suite.bookID, suite.linkID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))

	tx, err := suite.mock.Begin(suite.context)
	assert.NoError(suite.T(), err)

	count, err := suite.repo.CountPrimaryTx(suite.context, tx, suite.bookID, &suite.linkID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, count)
}
