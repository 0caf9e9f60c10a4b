package http_movie

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/humanbelnik/matchmovie/internal/model"
	usecase_movie "github.com/humanbelnik/matchmovie/internal/usecase/movie"
	repo_mocks "github.com/humanbelnik/matchmovie/internal/usecase/movie/mocks/repository"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type HTTPMovieSuite struct {
	suite.Suite
}

func (s *HTTPMovieSuite) TestCandidates(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		path         string
		setupMocks   func(repo *repo_mocks.Repository)
		expectedCode int
	}{
		{
			name: "Should return movies for categories",
			path: "/api/v1/movies?categories=Action,Crime&limit=2",
			setupMocks: func(repo *repo_mocks.Repository) {
				repo.On("ByCategories", mock.Anything, []string{"Action", "Crime"}, 2).
					Return([]model.Movie{{ID: 1, Title: "Heat"}}, nil).Once()
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Should reject non numeric limit",
			path:         "/api/v1/movies?limit=many",
			setupMocks:   func(repo *repo_mocks.Repository) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Should reject limit out of range",
			path:         "/api/v1/movies?limit=1000",
			setupMocks:   func(repo *repo_mocks.Repository) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Should hide repository failures",
			path: "/api/v1/movies",
			setupMocks: func(repo *repo_mocks.Repository) {
				repo.On("ByCategories", mock.Anything, []string{}, usecase_movie.DefaultLimit).
					Return(nil, errors.New("db down")).Once()
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			repo := repo_mocks.NewRepository(t)
			tc.setupMocks(repo)

			engine := gin.New()
			New(usecase_movie.New(repo)).RegisterRoutes(engine.Group("/api/v1"))

			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))

			assert.Equal(t, tc.expectedCode, rec.Code)
			repo.AssertExpectations(t)
		})
	}
}

func TestHTTPMovieSuite(t *testing.T) {
	gin.SetMode(gin.TestMode)
	suite.RunSuite(t, new(HTTPMovieSuite))
}
