package services

import (
	"testing"
	"time"

	"site_tools_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db.AutoMigrate(&models.Session{}, &models.User{})
	return db
}

func TestPasswordHashing(t *testing.T) {
	password := "SecretPass123!"

	hash, err := HashPassword(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	assert.True(t, CheckPassword(password, hash))
	assert.False(t, CheckPassword("WrongPass", hash))
}

func TestGenerateSessionToken(t *testing.T) {
	token1, err := GenerateSessionToken()
	assert.NoError(t, err)
	assert.Len(t, token1, SessionTokenLength*2) // hex encoded

	token2, err := GenerateSessionToken()
	assert.NoError(t, err)
	assert.NotEqual(t, token1, token2)
}

func TestSessionLifecycle(t *testing.T) {
	db := setupAuthTestDB()
	user := models.User{Name: "Test User", Email: "user@example.com", Password: "hash"}
	assert.NoError(t, db.Create(&user).Error)

	// 1. Create session
	session, err := CreateSession(db, user.ID, "127.0.0.1", "TestAgent")
	assert.NoError(t, err)
	assert.NotNil(t, session)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, user.ID, session.UserID)
	assert.WithinDuration(t, time.Now().Add(DefaultSessionDuration), session.ExpiresAt, 10*time.Second)

	// 2. Validate session (valid)
	validSession, err := ValidateSession(db, session.Token)
	assert.NoError(t, err)
	assert.Equal(t, session.ID, validSession.ID)
	assert.Equal(t, user.Email, validSession.User.Email)

	// 3. Validate session (invalid token)
	invalidSession, err := ValidateSession(db, "invalid-token")
	assert.Error(t, err)
	assert.Nil(t, invalidSession)
	assert.Contains(t, err.Error(), "session not found")

	// 4. Delete session (logout)
	assert.NoError(t, DeleteSession(db, session.Token))

	deletedSession, err := ValidateSession(db, session.Token)
	assert.Error(t, err)
	assert.Nil(t, deletedSession)
}

func TestSessionExpiry(t *testing.T) {
	db := setupAuthTestDB()

	token := "expired-token"
	expiredSession := models.Session{
		ID:        "sess-expired",
		UserID:    "user-exp",
		Token:     token,
		ExpiresAt: time.Now().Add(-1 * time.Hour),
	}
	db.Create(&expiredSession)

	// Validation rejects and deletes the expired session
	sess, err := ValidateSession(db, token)
	assert.Error(t, err)
	assert.Equal(t, "session expired", err.Error())
	assert.Nil(t, sess)

	var count int64
	db.Model(&models.Session{}).Where("token = ?", token).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCleanupExpiredSessions(t *testing.T) {
	db := setupAuthTestDB()

	db.Create(&models.Session{
		ID:        "sess-valid",
		Token:     "valid",
		ExpiresAt: time.Now().Add(1 * time.Hour),
	})
	db.Create(&models.Session{
		ID:        "sess-expired-1",
		Token:     "exp1",
		ExpiresAt: time.Now().Add(-1 * time.Hour),
	})
	db.Create(&models.Session{
		ID:        "sess-expired-2",
		Token:     "exp2",
		ExpiresAt: time.Now().Add(-2 * time.Hour),
	})

	err := CleanupExpiredSessions(db)
	assert.NoError(t, err)

	var count int64
	db.Model(&models.Session{}).Count(&count)
	assert.Equal(t, int64(1), count)

	var remaining models.Session
	db.First(&remaining)
	assert.Equal(t, "sess-valid", remaining.ID)
}

func TestDeleteAllUserSessions(t *testing.T) {
	db := setupAuthTestDB()
	targetUser := "target-user"
	otherUser := "other-user"

	db.Create(&models.Session{ID: "s1", UserID: targetUser, Token: "t1"})
	db.Create(&models.Session{ID: "s2", UserID: targetUser, Token: "t2"})
	db.Create(&models.Session{ID: "s3", UserID: otherUser, Token: "t3"})

	err := DeleteAllUserSessions(db, targetUser)
	assert.NoError(t, err)

	var count int64
	db.Model(&models.Session{}).Where("user_id = ?", targetUser).Count(&count)
	assert.Equal(t, int64(0), count)

	db.Model(&models.Session{}).Where("user_id = ?", otherUser).Count(&count)
	assert.Equal(t, int64(1), count)
}
