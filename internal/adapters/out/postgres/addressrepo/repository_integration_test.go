package addressrepo_test

import (
	"context"
	"testing"
	"time"

	"posttracker/internal/adapters/out/postgres/addressrepo"
	"posttracker/internal/core/domain/model/post"
	"posttracker/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type AddressRepositoryIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	repo      *addressrepo.GormAddressRepository
}

func (suite *AddressRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).WithStartupTimeout(30*time.Second)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&addressrepo.AddressDTO{}))
	suite.repo = addressrepo.NewGormAddressRepository(db)
}

func (suite *AddressRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE addresses RESTART IDENTITY CASCADE").Error)
}

func (suite *AddressRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *AddressRepositoryIntegrationTestSuite) TestAdd_StoresUpperCasedFields() {
	address, err := post.NewAddress("20040002", "Rio de Janeiro", "rj", "Avenida Rio Branco", "Centro", "156", "sala 1")
	suite.Require().NoError(err)

	stored, err := suite.repo.Add(context.Background(), address)
	suite.Require().NoError(err)

	suite.Equal(int64(1), stored.ID())

	var row addressrepo.AddressDTO
	suite.Require().NoError(suite.db.First(&row, stored.ID()).Error)
	suite.Equal("20040002", row.PostalCode)
	suite.Equal("RIO DE JANEIRO", row.City)
	suite.Equal("RJ", row.State)
	suite.Equal("SALA 1", row.Complement)
}

func (suite *AddressRepositoryIntegrationTestSuite) TestAdd_RejectsStoredAddress() {
	address, err := post.RestoreAddress(7, "20040002", "Rio de Janeiro", "RJ", "", "", "S/N", "")
	suite.Require().NoError(err)

	_, err = suite.repo.Add(context.Background(), address)

	suite.Require().ErrorIs(err, errs.ErrValueIsInvalid)
}

func (suite *AddressRepositoryIntegrationTestSuite) TestAdd_RejectsZeroValue() {
	_, err := suite.repo.Add(context.Background(), &post.Address{})

	suite.Require().ErrorIs(err, post.ErrAddressIsNotConstructed)
}

func TestAddressRepositoryIntegration(t *testing.T) {
	suite.Run(t, new(AddressRepositoryIntegrationTestSuite))
}
