package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"bookmart/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockAuthorRepository struct {
	mock.Mock
}

func (m *MockAuthorRepository) Create(ctx context.Context, author *models.Author) error {
	args := m.Called(ctx, author)
	return args.Error(0)
}

func (m *MockAuthorRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Author, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Author), args.Error(1)
}

func (m *MockAuthorRepository) GetByName(ctx context.Context, name string) (*models.Author, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Author), args.Error(1)
}

func (m *MockAuthorRepository) Update(ctx context.Context, author *models.Author) error {
	args := m.Called(ctx, author)
	return args.Error(0)
}

func (m *MockAuthorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAuthorRepository) List(ctx context.Context, limit, offset int) ([]*models.Author, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Author), args.Error(1)
}

func (m *MockAuthorRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockPublisherRepository struct {
	mock.Mock
}

func (m *MockPublisherRepository) Create(ctx context.Context, publisher *models.Publisher) error {
	args := m.Called(ctx, publisher)
	return args.Error(0)
}

func (m *MockPublisherRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Publisher, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Publisher), args.Error(1)
}

func (m *MockPublisherRepository) GetByName(ctx context.Context, name string) (*models.Publisher, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Publisher), args.Error(1)
}

func (m *MockPublisherRepository) Update(ctx context.Context, publisher *models.Publisher) error {
	args := m.Called(ctx, publisher)
	return args.Error(0)
}

func (m *MockPublisherRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPublisherRepository) List(ctx context.Context, limit, offset int) ([]*models.Publisher, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Publisher), args.Error(1)
}

func (m *MockPublisherRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) Update(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReviewRepository) List(ctx context.Context, limit, offset int) ([]*models.Review, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByBook(ctx context.Context, bookID uuid.UUID) ([]*models.Review, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Review), args.Error(1)
}

func (m *MockReviewRepository) StatsByBook(ctx context.Context, bookID uuid.UUID) (*models.ReviewStats, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewStats), args.Error(1)
}

func (m *MockReviewRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockReviewRepository) GlobalAverageRating(ctx context.Context) (*float64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

type MockMinioService struct {
	mock.Mock
}

func (m *MockMinioService) UploadCover(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, contentType)
	return args.Error(0)
}

func (m *MockMinioService) GetPresignedURL(bucketName, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(bucketName, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockMinioService) DeleteCover(ctx context.Context, bucketName, objectName string) error {
	args := m.Called(ctx, bucketName, objectName)
	return args.Error(0)
}

func (m *MockMinioService) EnsureBucketExists(ctx context.Context, bucketName string) error {
	args := m.Called(ctx, bucketName)
	return args.Error(0)
}

func (m *MockMinioService) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }

const testBucket = "book-covers"

// BookServiceTestSuite defines the test suite
type BookServiceTestSuite struct {
	suite.Suite
	mockBookRepo      *MockBookRepository
	mockAuthorRepo    *MockAuthorRepository
	mockPublisherRepo *MockPublisherRepository
	mockReviewRepo    *MockReviewRepository
	mockLinkRepo      *MockBookCategoryRepository
	mockCache         *MockCacheService
	mockStorage       *MockMinioService
	service           BookService
}

func (suite *BookServiceTestSuite) SetupTest() {
	suite.mockBookRepo = &MockBookRepository{}
	suite.mockAuthorRepo = &MockAuthorRepository{}
	suite.mockPublisherRepo = &MockPublisherRepository{}
	suite.mockReviewRepo = &MockReviewRepository{}
	suite.mockLinkRepo = &MockBookCategoryRepository{}
	suite.mockCache = &MockCacheService{}
	suite.mockStorage = &MockMinioService{}
	suite.service = NewBookService(suite.mockBookRepo, suite.mockAuthorRepo, suite.mockPublisherRepo,
		suite.mockReviewRepo, suite.mockLinkRepo, suite.mockCache, suite.mockStorage, testBucket)
}

func (suite *BookServiceTestSuite) TearDownTest() {
	suite.mockBookRepo.AssertExpectations(suite.T())
	suite.mockAuthorRepo.AssertExpectations(suite.T())
	suite.mockPublisherRepo.AssertExpectations(suite.T())
	suite.mockReviewRepo.AssertExpectations(suite.T())
	suite.mockLinkRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
	suite.mockStorage.AssertExpectations(suite.T())
}

func TestBookServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BookServiceTestSuite))
}

func (suite *BookServiceTestSuite) expectInvalidation() {
	suite.mockCache.On("DeleteBook", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockCache.On("DeleteCatalogStats", mock.Anything).Return(nil).Once()
}

func validBook() *models.Book {
	return &models.Book{
		Title:         "Dune",
		Author:        "Frank Herbert",
		PublishedDate: time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC),
		ISBN:          "9780441013593",
		Genre:         "Sci-Fi",
		Language:      "EN",
	}
}

func (suite *BookServiceTestSuite) TestCreate_Success() {
	book := validBook()
	authorID := uuid.New()
	author := &models.Author{ID: authorID, Name: "Frank Herbert"}

	suite.mockBookRepo.On("GetByISBN", mock.Anything, book.ISBN).Return((*models.Book)(nil), models.ErrNotFound).Once()
	suite.mockBookRepo.On("GetByTitleAndAuthor", mock.Anything, book.Title, book.Author).Return((*models.Book)(nil), models.ErrNotFound).Once()
	suite.mockAuthorRepo.On("GetByID", mock.Anything, authorID).Return(author, nil).Once()
	suite.mockBookRepo.On("Create", mock.Anything, book).Return(nil).Once()
	suite.mockBookRepo.On("ReplaceAuthors", mock.Anything, mock.AnythingOfType("uuid.UUID"), []uuid.UUID{authorID}).Return(nil).Once()
	suite.expectInvalidation()

	err := suite.service.Create(context.Background(), book, []uuid.UUID{authorID})

	assert.NoError(suite.T(), err)
	assert.NotEqual(suite.T(), uuid.Nil, book.ID)
}

func (suite *BookServiceTestSuite) TestCreate_DuplicateISBN() {
	book := validBook()
	existing := validBook()
	existing.ID = uuid.New()

	suite.mockBookRepo.On("GetByISBN", mock.Anything, book.ISBN).Return(existing, nil).Once()

	err := suite.service.Create(context.Background(), book, nil)

	assert.ErrorIs(suite.T(), err, models.ErrDuplicateISBN)
}

func (suite *BookServiceTestSuite) TestCreate_DuplicateTitleAndAuthor() {
	book := validBook()
	existing := validBook()
	existing.ID = uuid.New()
	existing.ISBN = "9780441013594"

	suite.mockBookRepo.On("GetByISBN", mock.Anything, book.ISBN).Return((*models.Book)(nil), models.ErrNotFound).Once()
	suite.mockBookRepo.On("GetByTitleAndAuthor", mock.Anything, book.Title, book.Author).Return(existing, nil).Once()

	err := suite.service.Create(context.Background(), book, nil)

	assert.ErrorIs(suite.T(), err, models.ErrDuplicateBook)
}

func (suite *BookServiceTestSuite) TestCreate_InvalidISBN() {
	book := validBook()
	book.ISBN = "12345"

	err := suite.service.Create(context.Background(), book, nil)

	assert.ErrorIs(suite.T(), err, models.ErrValidation)
}

func (suite *BookServiceTestSuite) TestCreate_UnsupportedLanguage() {
	book := validBook()
	book.Language = "XX"

	err := suite.service.Create(context.Background(), book, nil)

	assert.ErrorIs(suite.T(), err, models.ErrValidation)
}

func (suite *BookServiceTestSuite) TestCreate_DefaultsLanguage() {
	book := validBook()
	book.Language = ""

	suite.mockBookRepo.On("GetByISBN", mock.Anything, book.ISBN).Return((*models.Book)(nil), models.ErrNotFound).Once()
	suite.mockBookRepo.On("GetByTitleAndAuthor", mock.Anything, book.Title, book.Author).Return((*models.Book)(nil), models.ErrNotFound).Once()
	suite.mockBookRepo.On("Create", mock.Anything, book).Return(nil).Once()
	suite.expectInvalidation()

	err := suite.service.Create(context.Background(), book, nil)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.DefaultLanguage, book.Language)
}

func (suite *BookServiceTestSuite) TestCreate_PublisherMissing() {
	book := validBook()
	publisherID := uuid.New()
	book.PublisherID = &publisherID

	suite.mockBookRepo.On("GetByISBN", mock.Anything, book.ISBN).Return((*models.Book)(nil), models.ErrNotFound).Once()
	suite.mockBookRepo.On("GetByTitleAndAuthor", mock.Anything, book.Title, book.Author).Return((*models.Book)(nil), models.ErrNotFound).Once()
	suite.mockPublisherRepo.On("GetByID", mock.Anything, publisherID).Return((*models.Publisher)(nil), models.ErrNotFound).Once()

	err := suite.service.Create(context.Background(), book, nil)

	assert.ErrorIs(suite.T(), err, models.ErrValidation)
	assert.Contains(suite.T(), err.Error(), "publisher does not exist")
}

func (suite *BookServiceTestSuite) TestUpdate_NilAuthorIDsLeavesLinks() {
	book := validBook()
	book.ID = uuid.New()

	suite.mockBookRepo.On("GetByISBN", mock.Anything, book.ISBN).Return(book, nil).Once()
	suite.mockBookRepo.On("GetByTitleAndAuthor", mock.Anything, book.Title, book.Author).Return(book, nil).Once()
	suite.mockBookRepo.On("Update", mock.Anything, book).Return(nil).Once()
	suite.expectInvalidation()

	err := suite.service.Update(context.Background(), book, nil)

	assert.NoError(suite.T(), err)
	suite.mockBookRepo.AssertNotCalled(suite.T(), "ReplaceAuthors", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BookServiceTestSuite) TestUpdate_EmptyAuthorIDsClearsLinks() {
	book := validBook()
	book.ID = uuid.New()

	suite.mockBookRepo.On("GetByISBN", mock.Anything, book.ISBN).Return(book, nil).Once()
	suite.mockBookRepo.On("GetByTitleAndAuthor", mock.Anything, book.Title, book.Author).Return(book, nil).Once()
	suite.mockBookRepo.On("Update", mock.Anything, book).Return(nil).Once()
	suite.mockBookRepo.On("ReplaceAuthors", mock.Anything, book.ID, []uuid.UUID{}).Return(nil).Once()
	suite.expectInvalidation()

	err := suite.service.Update(context.Background(), book, []uuid.UUID{})

	assert.NoError(suite.T(), err)
}

func (suite *BookServiceTestSuite) TestUpdate_ISBNTakenByOtherBook() {
	book := validBook()
	book.ID = uuid.New()
	other := validBook()
	other.ID = uuid.New()

	suite.mockBookRepo.On("GetByISBN", mock.Anything, book.ISBN).Return(other, nil).Once()

	err := suite.service.Update(context.Background(), book, nil)

	assert.ErrorIs(suite.T(), err, models.ErrDuplicateISBN)
}

func (suite *BookServiceTestSuite) TestGetDetail_AssemblesEverything() {
	bookID := uuid.New()
	publisherID := uuid.New()
	book := validBook()
	book.ID = bookID
	book.PublisherID = &publisherID
	book.PageCount = intPtr(612)
	publisher := &models.Publisher{ID: publisherID, Name: "Chilton Books"}
	authors := []*models.Author{
		{ID: uuid.New(), Name: "Frank Herbert"},
		{ID: uuid.New(), Name: "Brian Herbert"},
	}
	reviews := []*models.Review{
		{ID: uuid.New(), BookID: bookID, ReviewerName: "Paul", Rating: 5, Content: "A classic."},
	}
	stats := &models.ReviewStats{ReviewCount: 2, AverageRating: floatPtr(4.5)}
	categories := []*models.BookCategoryDetail{
		{BookCategory: models.BookCategory{ID: uuid.New(), BookID: bookID, Primary: true, RelevanceScore: 9}, BookTitle: "Dune", CategoryName: "Sci-Fi"},
	}

	suite.mockCache.On("GetBook", mock.Anything, bookID).Return((*models.Book)(nil), nil).Once()
	suite.mockBookRepo.On("GetByID", mock.Anything, bookID).Return(book, nil).Once()
	suite.mockCache.On("SetBook", mock.Anything, book, bookCacheTTL).Return(nil).Once()
	suite.mockPublisherRepo.On("GetByID", mock.Anything, publisherID).Return(publisher, nil).Once()
	suite.mockBookRepo.On("ListAuthors", mock.Anything, bookID).Return(authors, nil).Once()
	suite.mockReviewRepo.On("ListByBook", mock.Anything, bookID).Return(reviews, nil).Once()
	suite.mockReviewRepo.On("StatsByBook", mock.Anything, bookID).Return(stats, nil).Once()
	suite.mockLinkRepo.On("ListByBook", mock.Anything, bookID).Return(categories, nil).Once()

	detail, err := suite.service.GetDetail(context.Background(), bookID)

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), detail.IsLongBook)
	assert.Equal(suite.T(), "Chilton Books", detail.Publisher.Name)
	assert.Equal(suite.T(), "Frank Herbert, Brian Herbert", detail.AuthorsDisplay)
	assert.Equal(suite.T(), 2, detail.ReviewCount)
	assert.Equal(suite.T(), 4.5, *detail.AverageRating)
	assert.Len(suite.T(), detail.Categories, 1)
}

func (suite *BookServiceTestSuite) TestGetByID_CacheHit() {
	bookID := uuid.New()
	book := validBook()
	book.ID = bookID

	suite.mockCache.On("GetBook", mock.Anything, bookID).Return(book, nil).Once()

	result, err := suite.service.GetByID(context.Background(), bookID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), book, result)
}

func (suite *BookServiceTestSuite) TestDelete_RemovesCoverObject() {
	bookID := uuid.New()
	book := validBook()
	book.ID = bookID
	book.CoverImage = strPtr("covers/old.png")

	suite.mockBookRepo.On("GetByID", mock.Anything, bookID).Return(book, nil).Once()
	suite.mockBookRepo.On("Delete", mock.Anything, bookID).Return(nil).Once()
	suite.mockStorage.On("DeleteCover", mock.Anything, testBucket, "covers/old.png").Return(nil).Once()
	suite.expectInvalidation()

	err := suite.service.Delete(context.Background(), bookID)

	assert.NoError(suite.T(), err)
}

func (suite *BookServiceTestSuite) TestUploadCover_Success() {
	bookID := uuid.New()
	book := validBook()
	book.ID = bookID
	reader := strings.NewReader("fake image bytes")
	objectName := fmt.Sprintf("covers/%s.png", bookID.String())

	suite.mockBookRepo.On("GetByID", mock.Anything, bookID).Return(book, nil).Once()
	suite.mockStorage.On("EnsureBucketExists", mock.Anything, testBucket).Return(nil).Once()
	suite.mockStorage.On("UploadCover", mock.Anything, testBucket, objectName, reader, int64(16), "image/png").Return(nil).Once()
	suite.mockBookRepo.On("SetCoverImage", mock.Anything, bookID, &objectName).Return(nil).Once()
	suite.expectInvalidation()

	err := suite.service.UploadCover(context.Background(), bookID, "Cover.PNG", "image/png", reader, 16)

	assert.NoError(suite.T(), err)
}

func (suite *BookServiceTestSuite) TestCoverURL_Success() {
	bookID := uuid.New()
	book := validBook()
	book.ID = bookID
	book.CoverImage = strPtr("covers/dune.png")

	suite.mockCache.On("GetBook", mock.Anything, bookID).Return(book, nil).Once()
	suite.mockStorage.On("GetPresignedURL", testBucket, "covers/dune.png", coverURLExpiry).Return("https://storage.local/covers/dune.png", nil).Once()

	url, err := suite.service.CoverURL(context.Background(), bookID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "https://storage.local/covers/dune.png", url)
}

func (suite *BookServiceTestSuite) TestCoverURL_NoCover() {
	bookID := uuid.New()
	book := validBook()
	book.ID = bookID

	suite.mockCache.On("GetBook", mock.Anything, bookID).Return(book, nil).Once()

	url, err := suite.service.CoverURL(context.Background(), bookID)

	assert.ErrorIs(suite.T(), err, models.ErrNotFound)
	assert.Empty(suite.T(), url)
}

func (suite *BookServiceTestSuite) TestList_InvalidLanguageFilter() {
	filter := &models.BookSearchFilter{Language: strPtr("QQ")}

	books, err := suite.service.List(context.Background(), filter)

	assert.ErrorIs(suite.T(), err, models.ErrValidation)
	assert.Nil(suite.T(), books)
}

func (suite *BookServiceTestSuite) TestList_Passthrough() {
	filter := &models.BookSearchFilter{Genre: strPtr("Sci-Fi")}
	expected := []*models.BookSummary{
		{Book: models.Book{ID: uuid.New(), Title: "Dune"}},
	}

	suite.mockBookRepo.On("List", mock.Anything, filter).Return(expected, nil).Once()

	books, err := suite.service.List(context.Background(), filter)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), expected, books)
}
