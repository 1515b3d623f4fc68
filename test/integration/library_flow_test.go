//go:build integration
// +build integration

package integration

import (
	"context"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"library-management-be/internal/bootstrap"
	"library-management-be/internal/config"
	"library-management-be/internal/model"
	"library-management-be/internal/server"
	"library-management-be/pkg/database"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

const isbn = "9780132350884"

type envelope struct {
	Success bool                `json:"success"`
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Data    jsoniter.RawMessage `json:"data"`
}

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("library"),
		postgres.WithUsername("library"),
		postgres.WithPassword("library"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pg.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		App: config.AppConfig{
			Environment: "test",
			LogFilePath: filepath.Join(dir, "app.log"),
		},
		Auth: config.AuthConfig{JWTSecret: "integration-secret", TokenTTL: time.Hour},
		Loan: config.LoanConfig{
			Period:            7 * 24 * time.Hour,
			DefaultFinePerDay: decimal.RequireFromString("2.50"),
		},
		Messaging: config.MessagingConfig{
			UserRegisteredTopic: "user.registered",
			AuditLogPath:        filepath.Join(dir, "audit.log"),
		},
	}
}

type client struct {
	t   *testing.T
	app *fiber.App
}

func (c client) call(method, path, token, body string) (int, envelope) {
	c.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.app.Test(req, 10_000)
	require.NoError(c.t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)

	var env envelope
	require.NoError(c.t, jsoniter.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func (c client) signUp(db *gorm.DB, email, role string) string {
	c.t.Helper()
	status, _ := c.call("POST", "/api/register", "", `{"email":"`+email+`","password":"correct-horse"}`)
	require.Equal(c.t, fiber.StatusCreated, status)

	if role != "regular" {
		require.NoError(c.t, db.Model(&model.User{}).Where("email = ?", email).Update("role", role).Error)
	}

	status, env := c.call("POST", "/api/login", "", `{"email":"`+email+`","password":"correct-horse"}`)
	require.Equal(c.t, fiber.StatusOK, status)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(c.t, jsoniter.Unmarshal(env.Data, &login))
	return login.AccessToken
}

func TestLibraryFlow(t *testing.T) {
	db, err := database.NewGormDBFromDSN(startPostgres(t), false)
	require.NoError(t, err)
	require.NoError(t, model.Migrate(db))

	container, err := bootstrap.NewContainer(db, testConfig(t))
	require.NoError(t, err)
	defer container.Close()

	c := client{t: t, app: server.New(testConfig(t), container).GetApp()}

	librarian := c.signUp(db, "librarian@library.org", "librarian")
	members := make([]string, 6)
	for i := range members {
		members[i] = c.signUp(db, "member"+string(rune('a'+i))+"@library.org", "regular")
	}

	// Catalog
	status, env := c.call("POST", "/api/categories", librarian, `{"name":"Software"}`)
	require.Equal(t, fiber.StatusCreated, status)
	var category struct {
		Id string `json:"id"`
	}
	require.NoError(t, jsoniter.Unmarshal(env.Data, &category))

	status, _ = c.call("POST", "/api/books", members[0], `{"isbn":"`+isbn+`","title":"Clean Code","author":"Robert C. Martin","published_date":"2008-08-01","category_id":"`+category.Id+`"}`)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = c.call("POST", "/api/books", librarian, `{"isbn":"978-0-13-235088-4","title":"Clean Code","author":"Robert C. Martin","published_date":"2008-08-01","category_id":"`+category.Id+`"}`)
	require.Equal(t, fiber.StatusCreated, status)

	// Concurrent borrow: the row lock admits one winner.
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []int
	)
	for i, token := range members {
		wg.Add(1)
		go func(i int, token string) {
			defer wg.Done()
			status, _ := c.call("POST", "/api/books/"+isbn+"/borrow", token, "")
			if status == fiber.StatusOK {
				mu.Lock()
				winners = append(winners, i)
				mu.Unlock()
				return
			}
			assert.Equal(t, fiber.StatusConflict, status)
		}(i, token)
	}
	wg.Wait()
	require.Len(t, winners, 1)
	borrower := members[winners[0]]
	other := members[(winners[0]+1)%len(members)]

	status, _ = c.call("POST", "/api/books/"+isbn+"/return", other, "")
	assert.Equal(t, fiber.StatusForbidden, status)

	// Push the loan three days past due.
	require.NoError(t, db.Exec("UPDATE books SET due_date = ? WHERE isbn = ?",
		time.Now().Add(-3*24*time.Hour-time.Hour), isbn).Error)

	status, env = c.call("POST", "/api/books/"+isbn+"/return", borrower, "")
	require.Equal(t, fiber.StatusPaymentRequired, status)
	var owed struct {
		Amount string `json:"amount"`
	}
	require.NoError(t, jsoniter.Unmarshal(env.Data, &owed))
	assert.Equal(t, "7.50", owed.Amount)

	status, env = c.call("GET", "/api/reports/overdue", librarian, "")
	require.Equal(t, fiber.StatusOK, status)
	var overdue []struct {
		ISBN        string `json:"isbn"`
		OverdueDays int64  `json:"overdue_days"`
		FeeOwed     string `json:"fee_owed"`
	}
	require.NoError(t, jsoniter.Unmarshal(env.Data, &overdue))
	require.Len(t, overdue, 1)
	assert.Equal(t, int64(3), overdue[0].OverdueDays)
	assert.Equal(t, "7.50", overdue[0].FeeOwed)

	status, _ = c.call("GET", "/api/reports/overdue", borrower, "")
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = c.call("POST", "/api/books/"+isbn+"/pay-fee", borrower, `{"amount":"5.00"}`)
	assert.Equal(t, fiber.StatusPaymentRequired, status)

	status, _ = c.call("POST", "/api/books/"+isbn+"/pay-fee", borrower, `{"amount":"7.50"}`)
	require.Equal(t, fiber.StatusOK, status)

	var book model.Book
	require.NoError(t, db.First(&book, "isbn = ?", isbn).Error)
	assert.Nil(t, book.BorrowedBy)
	assert.Nil(t, book.DueDate)

	var payments int64
	require.NoError(t, db.Model(&model.FeePayment{}).Count(&payments).Error)
	assert.Equal(t, int64(1), payments)

	status, env = c.call("GET", "/api/notifications/unread-count", borrower, "")
	require.Equal(t, fiber.StatusOK, status)
	var unread struct {
		Count int64 `json:"count"`
	}
	require.NoError(t, jsoniter.Unmarshal(env.Data, &unread))
	assert.Equal(t, int64(2), unread.Count)
}
