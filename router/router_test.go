package router_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"go-ledger-api/app"
	"go-ledger-api/config"
	"go-ledger-api/logger"
	"go-ledger-api/model"
	"go-ledger-api/service"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

var testApp *app.TestApp
var authService *service.AuthService
var testRedisClient *redis.Client

func TestMain(m *testing.M) {
	logger.Init()
	config.LoadConfig("../")
	authService = service.NewAuthService(nil)

	testDbConnStr := fmt.Sprintf("postgres://%s:%s@localhost:5434/%s_test?sslmode=disable",
		config.AppConfig.Database.User,
		config.AppConfig.Database.Password,
		config.AppConfig.Database.Name,
	)
	db, err := sql.Open("postgres", testDbConnStr)
	if err != nil {
		log.Fatalf("could not open test database: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	if err != nil {
		// No test database around; every test skips.
		fmt.Printf("test database not reachable, skipping integration tests: %v\n", err)
		os.Exit(0)
	}
	runMigrations(testDbConnStr)

	// Redis is optional: without it the app serves straight from Postgres.
	var cache service.ICacheClient
	redisAddr := fmt.Sprintf("%s:%s", config.AppConfig.Redis.Host, config.AppConfig.Redis.Port)
	testRedisClient = redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: config.AppConfig.Redis.Password,
		DB:       1, // separate DB for test isolation
	})
	if _, err := testRedisClient.Ping(context.Background()).Result(); err != nil {
		testRedisClient = nil
	} else {
		cache = testRedisClient
	}

	testApp = app.NewTestApp(db, cache)

	exitCode := m.Run()

	db.Close()
	if testRedisClient != nil {
		testRedisClient.Close()
	}
	os.Exit(exitCode)
}

func runMigrations(connStr string) {
	mig, err := migrate.New("file://../db/migrations", connStr)
	if err != nil {
		log.Fatalf("cannot create migrate instance: %v", err)
	}
	if err := mig.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatalf("failed to run migrate up: %v", err)
	}
}

// --- Test Helper Functions ---

func clearRedis(t *testing.T) {
	if testRedisClient == nil {
		t.Skip("redis not available")
	}
	err := testRedisClient.FlushDB(context.Background()).Err()
	assert.NoError(t, err)
}

func createUserForTest(t *testing.T, name, email, password, identityNumber string) model.User {
	hashedPassword, _ := authService.HashPassword(password)
	user := model.User{
		Name:     name,
		Email:    email,
		Password: hashedPassword,
	}
	err := testApp.DB.QueryRow(
		`INSERT INTO users (name, email, password) VALUES ($1, $2, $3) RETURNING id`,
		user.Name, user.Email, user.Password,
	).Scan(&user.ID)
	assert.NoError(t, err)
	_, err = testApp.DB.Exec(
		`INSERT INTO profiles (user_id, identity_type, identity_number, address) VALUES ($1, $2, $3, $4)`,
		user.ID, "KTP", identityNumber, "1 Test Street",
	)
	assert.NoError(t, err)
	return user
}

func cleanupUser(t *testing.T, email string) {
	var userID int
	err := testApp.DB.QueryRow("SELECT id FROM users WHERE email = $1", email).Scan(&userID)
	if err == sql.ErrNoRows {
		return
	}
	assert.NoError(t, err)
	_, err = testApp.DB.Exec(
		`DELETE FROM transactions WHERE source_account_id IN (SELECT id FROM accounts WHERE user_id = $1)
		   OR destination_account_id IN (SELECT id FROM accounts WHERE user_id = $1)`, userID)
	assert.NoError(t, err)
	_, err = testApp.DB.Exec("DELETE FROM accounts WHERE user_id = $1", userID)
	assert.NoError(t, err)
	_, err = testApp.DB.Exec("DELETE FROM users WHERE id = $1", userID)
	assert.NoError(t, err)
}

func loginUserForTest(t *testing.T, email, password string) string {
	requestBody := fmt.Sprintf(`{"email": "%s", "password": "%s"}`, email, password)
	req, _ := http.NewRequest("POST", "/auth/login", strings.NewReader(requestBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	testApp.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code, "Login request should be successful")
	var response struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	err := json.Unmarshal(rr.Body.Bytes(), &response)
	assert.NoError(t, err, "Should be able to unmarshal login response")
	assert.NotEmpty(t, response.Data.Token, "Token should not be empty")
	return response.Data.Token
}

func createAccountForTest(t *testing.T, userID int, bankName, number string, balance int64) model.Account {
	account := model.Account{
		UserID:            userID,
		BankName:          bankName,
		BankAccountNumber: number,
		Balance:           balance,
	}
	err := testApp.DB.QueryRow(
		`INSERT INTO accounts (user_id, bank_name, bank_account_number, balance) VALUES ($1, $2, $3, $4) RETURNING id`,
		account.UserID, account.BankName, account.BankAccountNumber, account.Balance,
	).Scan(&account.ID)
	assert.NoError(t, err)
	return account
}

// --- Test Suites ---

func TestHealthCheck_Integration(t *testing.T) {
	req, _ := http.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	testApp.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRegister_Integration(t *testing.T) {
	requestBody := `{
		"name": "Integration User",
		"email": "integration@test.com",
		"password": "password123",
		"identity_type": "KTP",
		"identity_number": "3201-0001-9999",
		"address": "1 Integration Street"
	}`
	req, _ := http.NewRequest("POST", "/auth/register", strings.NewReader(requestBody))
	rr := httptest.NewRecorder()
	defer cleanupUser(t, "integration@test.com")
	testApp.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code)

	var name string
	err := testApp.DB.QueryRow("SELECT name FROM users WHERE email = $1", "integration@test.com").Scan(&name)
	assert.NoError(t, err)
	assert.Equal(t, "Integration User", name)

	var response struct {
		User *model.User `json:"user"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.NotNil(t, response.User)
	assert.Empty(t, response.User.Password, "Password hash must never leave the API")
}

func TestLogin_Integration(t *testing.T) {
	email := "login.test@example.com"
	password := "password123"
	createUserForTest(t, "Login User", email, password, "3201-0002-9999")
	defer cleanupUser(t, email)

	t.Run("successful login", func(t *testing.T) {
		token := loginUserForTest(t, email, password)
		assert.NotEmpty(t, token)
	})
	t.Run("wrong password", func(t *testing.T) {
		requestBody := fmt.Sprintf(`{"email": "%s", "password": "wrongpassword"}`, email)
		req, _ := http.NewRequest("POST", "/auth/login", strings.NewReader(requestBody))
		rr := httptest.NewRecorder()
		testApp.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestCreateAccount_Integration(t *testing.T) {
	clearRedis(t)
	email := "account.test@example.com"
	user := createUserForTest(t, "Account User", email, "password123", "3201-0003-9999")
	defer cleanupUser(t, email)
	token := loginUserForTest(t, email, "password123")

	t.Run("success", func(t *testing.T) {
		requestBody := fmt.Sprintf(
			`{"user_id": %d, "bank_name": "BCA", "bank_account_number": "111-222-333", "balance": 50000}`,
			user.ID,
		)
		req, _ := http.NewRequest("POST", "/api/v1/accounts", strings.NewReader(requestBody))
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		testApp.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusCreated, rr.Code)

		var balance int64
		err := testApp.DB.QueryRow("SELECT balance FROM accounts WHERE user_id = $1", user.ID).Scan(&balance)
		assert.NoError(t, err, "Account should be created in the database")
		assert.Equal(t, int64(50000), balance)
	})

	t.Run("duplicate bank pair rejected", func(t *testing.T) {
		requestBody := fmt.Sprintf(
			`{"user_id": %d, "bank_name": "BCA", "bank_account_number": "111-222-333"}`,
			user.ID,
		)
		req, _ := http.NewRequest("POST", "/api/v1/accounts", strings.NewReader(requestBody))
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		testApp.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestListAccounts_Caching_Integration(t *testing.T) {
	clearRedis(t)
	email := "cache@test.com"
	user := createUserForTest(t, "Cache User", email, "password123", "3201-0004-9999")
	defer cleanupUser(t, email)
	token := loginUserForTest(t, email, "password123")
	createAccountForTest(t, user.ID, "BNI", "444-555-666", 0)

	// First request misses and fills the cache.
	req, _ := http.NewRequest("GET", "/api/v1/accounts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	testApp.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	cachedValue, err := testRedisClient.Get(context.Background(), "accounts:all").Result()
	assert.NoError(t, err)
	assert.NotEmpty(t, cachedValue)

	// A mutation must invalidate the cache.
	requestBody := fmt.Sprintf(`{"user_id": %d, "bank_name": "BNI", "bank_account_number": "444-555-777"}`, user.ID)
	req, _ = http.NewRequest("POST", "/api/v1/accounts", strings.NewReader(requestBody))
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	testApp.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code)

	_, err = testRedisClient.Get(context.Background(), "accounts:all").Result()
	assert.Equal(t, redis.Nil, err, "Cache key should be deleted after account creation")
}

func TestTransfer_Integration(t *testing.T) {
	sender := createUserForTest(t, "Sender", "sender@test.com", "password123", "3201-0005-9999")
	receiver := createUserForTest(t, "Receiver", "receiver@test.com", "password123", "3201-0006-9999")
	defer cleanupUser(t, sender.Email)
	defer cleanupUser(t, receiver.Email)
	senderAccount := createAccountForTest(t, sender.ID, "BCA", "777-888-999", 500)
	receiverAccount := createAccountForTest(t, receiver.ID, "BRI", "777-888-000", 100)
	token := loginUserForTest(t, sender.Email, "password123")

	transfer := func(sourceID, destinationID int, amount int64) *httptest.ResponseRecorder {
		body := fmt.Sprintf(
			`{"source_account_id": %d, "destination_account_id": %d, "amount": %d}`,
			sourceID, destinationID, amount,
		)
		req, _ := http.NewRequest("POST", "/api/v1/transactions", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		testApp.Router.ServeHTTP(rr, req)
		return rr
	}

	t.Run("successful transfer moves funds and records one ledger entry", func(t *testing.T) {
		rr := transfer(senderAccount.ID, receiverAccount.ID, 150)
		assert.Equal(t, http.StatusCreated, rr.Code)

		var senderBalance, receiverBalance int64
		assert.NoError(t, testApp.DB.QueryRow("SELECT balance FROM accounts WHERE id = $1", senderAccount.ID).Scan(&senderBalance))
		assert.NoError(t, testApp.DB.QueryRow("SELECT balance FROM accounts WHERE id = $1", receiverAccount.ID).Scan(&receiverBalance))
		assert.Equal(t, int64(350), senderBalance)
		assert.Equal(t, int64(250), receiverBalance)

		var count int
		assert.NoError(t, testApp.DB.QueryRow(
			"SELECT COUNT(*) FROM transactions WHERE source_account_id = $1 AND destination_account_id = $2 AND amount = 150",
			senderAccount.ID, receiverAccount.ID,
		).Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("insufficient funds rolls everything back", func(t *testing.T) {
		rr := transfer(senderAccount.ID, receiverAccount.ID, 1000000)
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var senderBalance int64
		assert.NoError(t, testApp.DB.QueryRow("SELECT balance FROM accounts WHERE id = $1", senderAccount.ID).Scan(&senderBalance))
		assert.Equal(t, int64(350), senderBalance)
	})

	t.Run("enriched transaction carries both legs and their owners", func(t *testing.T) {
		var transactionID int
		assert.NoError(t, testApp.DB.QueryRow(
			"SELECT id FROM transactions WHERE source_account_id = $1 ORDER BY id DESC LIMIT 1",
			senderAccount.ID,
		).Scan(&transactionID))

		req, _ := http.NewRequest("GET", fmt.Sprintf("/api/v1/transactions/%d", transactionID), nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		testApp.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)

		var response struct {
			Data model.EnrichedTransaction `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
		assert.Equal(t, "Sender", response.Data.SourceAccount.User.Name)
		assert.Equal(t, "Receiver", response.Data.DestinationAccount.User.Name)
		assert.Equal(t, int64(150), response.Data.Amount)
	})

	t.Run("concurrent transfers over one balance admit exactly one", func(t *testing.T) {
		// The source covers exactly one full transfer. Ten racing requests
		// must produce one success, nine insufficient-funds rejections, a
		// final balance of zero and a single ledger entry.
		drainSource := createAccountForTest(t, sender.ID, "BCA", "777-888-111", 200)
		drainDest := createAccountForTest(t, receiver.ID, "BRI", "777-888-222", 0)

		const attempts = 10
		codes := make(chan int, attempts)
		var wg sync.WaitGroup
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				codes <- transfer(drainSource.ID, drainDest.ID, 200).Code
			}()
		}
		wg.Wait()
		close(codes)

		var created, rejected int
		for code := range codes {
			switch code {
			case http.StatusCreated:
				created++
			case http.StatusBadRequest:
				rejected++
			}
		}
		assert.Equal(t, 1, created)
		assert.Equal(t, attempts-1, rejected)

		var sourceBalance, destBalance int64
		assert.NoError(t, testApp.DB.QueryRow("SELECT balance FROM accounts WHERE id = $1", drainSource.ID).Scan(&sourceBalance))
		assert.NoError(t, testApp.DB.QueryRow("SELECT balance FROM accounts WHERE id = $1", drainDest.ID).Scan(&destBalance))
		assert.Equal(t, int64(0), sourceBalance)
		assert.Equal(t, int64(200), destBalance)

		var entries int
		assert.NoError(t, testApp.DB.QueryRow(
			"SELECT COUNT(*) FROM transactions WHERE source_account_id = $1", drainSource.ID,
		).Scan(&entries))
		assert.Equal(t, 1, entries)
	})
}

func TestDeleteUserWithAccounts_Integration(t *testing.T) {
	email := "restrict@test.com"
	user := createUserForTest(t, "Restrict User", email, "password123", "3201-0007-9999")
	defer cleanupUser(t, email)
	createAccountForTest(t, user.ID, "Mandiri", "123-456-789", 0)
	token := loginUserForTest(t, email, "password123")

	req, _ := http.NewRequest("DELETE", fmt.Sprintf("/api/v1/users/%d", user.ID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	testApp.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusConflict, rr.Code)
}
