package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/brandcert/backend/internal/domain/notification"
	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockNotificationRepository creates a GormNotificationRepository with a mocked SQL connection
func newMockNotificationRepository(t *testing.T) (*GormNotificationRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormNotificationRepository(gormDB), mock, mockDB
}

func TestGormNotificationRepository_Create(t *testing.T) {
	t.Run("inserts new notification", func(t *testing.T) {
		repo, mock, mockDB := newMockNotificationRepository(t)
		defer mockDB.Close()

		brandID := uuid.New()
		userID := uuid.New()
		n, err := notification.NewNotification(brandID, userID, notification.TypeCertificateMinted, "Certificate minted", "Your certificate is on chain")
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "notifications"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Create(context.Background(), n)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormNotificationRepository_CreateBatch(t *testing.T) {
	t.Run("inserts all notifications in one statement", func(t *testing.T) {
		repo, mock, mockDB := newMockNotificationRepository(t)
		defer mockDB.Close()

		brandID := uuid.New()
		n1, err := notification.NewNotification(brandID, uuid.New(), notification.TypeCertificateMinted, "Minted", "Body")
		require.NoError(t, err)
		n2, err := notification.NewNotification(brandID, uuid.New(), notification.TypeCertificateMinted, "Minted", "Body")
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "notifications"`).
			WillReturnResult(sqlmock.NewResult(0, 2))

		err = repo.CreateBatch(context.Background(), []*notification.Notification{n1, n2})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil for empty batch", func(t *testing.T) {
		repo, _, mockDB := newMockNotificationRepository(t)
		defer mockDB.Close()

		err := repo.CreateBatch(context.Background(), nil)

		assert.NoError(t, err)
	})
}

func TestGormNotificationRepository_FindByID(t *testing.T) {
	t.Run("returns ErrNotFound for missing notification", func(t *testing.T) {
		repo, mock, mockDB := newMockNotificationRepository(t)
		defer mockDB.Close()

		brandID := uuid.New()
		id := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "notifications" WHERE brand_id = \$1 AND id = \$2 AND deleted_at IS NULL ORDER BY .* LIMIT .*`).
			WithArgs(brandID, id, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		n, err := repo.FindByID(context.Background(), brandID, id)

		assert.Error(t, err)
		assert.Nil(t, n)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormNotificationRepository_FindForUser(t *testing.T) {
	t.Run("lists a user's notifications", func(t *testing.T) {
		repo, mock, mockDB := newMockNotificationRepository(t)
		defer mockDB.Close()

		brandID := uuid.New()
		userID := uuid.New()
		id1 := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "notifications" WHERE brand_id = \$1 AND recipient_user_id = \$2 AND deleted_at IS NULL`).
			WithArgs(brandID, userID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		rows := sqlmock.NewRows([]string{"id", "brand_id", "recipient_user_id", "type", "title", "body", "is_read", "version"}).
			AddRow(id1, brandID, userID, "certificate_minted", "Minted", "Body", false, 1)

		mock.ExpectQuery(`SELECT \* FROM "notifications" WHERE brand_id = \$1 AND recipient_user_id = \$2 AND deleted_at IS NULL ORDER BY created_at DESC LIMIT .*`).
			WithArgs(brandID, userID, 20).
			WillReturnRows(rows)

		items, total, err := repo.FindForUser(context.Background(), brandID, userID, notification.NewFilter())

		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, items, 1)
		assert.Equal(t, notification.TypeCertificateMinted, items[0].Type)
		assert.False(t, items[0].Read)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unread only adds is_read filter", func(t *testing.T) {
		repo, mock, mockDB := newMockNotificationRepository(t)
		defer mockDB.Close()

		brandID := uuid.New()
		userID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "notifications" WHERE brand_id = \$1 AND recipient_user_id = \$2 AND deleted_at IS NULL AND is_read = \$3`).
			WithArgs(brandID, userID, false).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		mock.ExpectQuery(`SELECT \* FROM "notifications" WHERE brand_id = \$1 AND recipient_user_id = \$2 AND deleted_at IS NULL AND is_read = \$3 ORDER BY created_at DESC LIMIT .*`).
			WithArgs(brandID, userID, false, 20).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		items, total, err := repo.FindForUser(context.Background(), brandID, userID, notification.NewFilter().WithUnreadOnly())

		assert.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.Empty(t, items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormNotificationRepository_CountUnread(t *testing.T) {
	t.Run("counts unread notifications", func(t *testing.T) {
		repo, mock, mockDB := newMockNotificationRepository(t)
		defer mockDB.Close()

		brandID := uuid.New()
		userID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "notifications" WHERE brand_id = \$1 AND recipient_user_id = \$2 AND is_read = \$3 AND deleted_at IS NULL`).
			WithArgs(brandID, userID, false).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

		count, err := repo.CountUnread(context.Background(), brandID, userID)

		assert.NoError(t, err)
		assert.Equal(t, int64(4), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormNotificationRepository_MarkAllRead(t *testing.T) {
	t.Run("returns number of rows updated", func(t *testing.T) {
		repo, mock, mockDB := newMockNotificationRepository(t)
		defer mockDB.Close()

		brandID := uuid.New()
		userID := uuid.New()

		mock.ExpectExec(`UPDATE "notifications" SET`).
			WillReturnResult(sqlmock.NewResult(0, 3))

		updated, err := repo.MarkAllRead(context.Background(), brandID, userID)

		assert.NoError(t, err)
		assert.Equal(t, int64(3), updated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns zero when everything is already read", func(t *testing.T) {
		repo, mock, mockDB := newMockNotificationRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "notifications" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		updated, err := repo.MarkAllRead(context.Background(), uuid.New(), uuid.New())

		assert.NoError(t, err)
		assert.Equal(t, int64(0), updated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormNotificationRepository_InterfaceCompliance(t *testing.T) {
	t.Run("implements notification.Repository interface", func(t *testing.T) {
		repo, _, mockDB := newMockNotificationRepository(t)
		defer mockDB.Close()

		var _ notification.Repository = repo
	})
}
