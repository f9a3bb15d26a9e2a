package agencyapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/4oBuko/spy-cat-console/internal/agencytest"
	"github.com/4oBuko/spy-cat-console/internal/models"
	"github.com/4oBuko/spy-cat-console/internal/myerrors"
	"github.com/4oBuko/spy-cat-console/internal/slogx"
	"github.com/4oBuko/spy-cat-console/pkg/agencyapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, breeds ...string) (*agencytest.Server, *agencyapi.Client) {
	t.Helper()
	agency, httpServer := agencytest.Start(breeds...)
	t.Cleanup(httpServer.Close)
	return agency, agencyapi.NewClient(httpServer.URL+"/", 5*time.Second)
}

func TestPath(t *testing.T) {
	assert.Equal(t, "/api/cats/7", agencyapi.Path(agencyapi.Endpoints.CatGet, 7))
	assert.Equal(t, "/api/missions/3/targets/9", agencyapi.Path(agencyapi.Endpoints.TargetUpdate, 3, 9))
	assert.Equal(t, "/api/cats/", agencyapi.Path(agencyapi.Endpoints.CatList))
}

func TestCreateAndListCats(t *testing.T) {
	ctx := context.Background()
	agency, client := newClient(t, "Tabby", "Siamese")

	t.Run("empty list decodes as empty slice", func(t *testing.T) {
		cats, err := client.ListCats(ctx)
		require.NoError(t, err)
		assert.NotNil(t, cats)
		assert.Empty(t, cats)
	})

	t.Run("create sends snake case body and returns assigned id", func(t *testing.T) {
		cat, err := client.CreateCat(ctx, models.CatCreate{
			Name:              "Whiskers",
			YearsOfExperience: 3,
			Breed:             "Tabby",
			Salary:            50000,
		})
		require.NoError(t, err)
		assert.NotZero(t, cat.Id)
		assert.Equal(t, "Whiskers", cat.Name)
		assert.False(t, cat.CreatedAt.IsZero())

		sent := agency.RequestsTo(http.MethodPost, "/api/cats/")
		require.Len(t, sent, 1)
		var body map[string]any
		require.NoError(t, json.Unmarshal(sent[0].Body, &body))
		assert.Equal(t, map[string]any{
			"name":                "Whiskers",
			"years_of_experience": float64(3),
			"breed":               "Tabby",
			"salary":              float64(50000),
		}, body)
	})

	t.Run("list returns the created cat", func(t *testing.T) {
		cats, err := client.ListCats(ctx)
		require.NoError(t, err)
		require.Len(t, cats, 1)
		assert.Equal(t, "Whiskers", cats[0].Name)
	})

	t.Run("unknown breed is a validation error with the server detail", func(t *testing.T) {
		_, err := client.CreateCat(ctx, models.CatCreate{Name: "Fraud", Breed: "Unicorn", Salary: 1})
		var validationErr *myerrors.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, http.StatusBadRequest, validationErr.StatusCode)
		assert.Contains(t, validationErr.Detail, "breed")
	})
}

func TestUpdateCat(t *testing.T) {
	ctx := context.Background()
	agency, client := newClient(t, "Tabby")
	cat := agency.Seed(models.CatCreate{Name: "Bobby", Breed: "Tabby", YearsOfExperience: 3, Salary: 900})[0]

	t.Run("update sends only salary", func(t *testing.T) {
		updated, err := client.UpdateCat(ctx, cat.Id, models.CatUpdate{Salary: 1800})
		require.NoError(t, err)
		assert.Equal(t, 1800.0, updated.Salary)
		assert.Equal(t, cat.Name, updated.Name)

		sent := agency.RequestsTo(http.MethodPut, agencyapi.Path(agencyapi.Endpoints.CatUpdate, cat.Id))
		require.Len(t, sent, 1)
		assert.JSONEq(t, `{"salary":1800}`, string(sent[0].Body))
	})

	t.Run("non positive salary is rejected with a field tag", func(t *testing.T) {
		_, err := client.UpdateCat(ctx, cat.Id, models.CatUpdate{Salary: -1})
		var validationErr *myerrors.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "salary", validationErr.Field)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := client.UpdateCat(ctx, 4242, models.CatUpdate{Salary: 10})
		var notFoundErr *myerrors.NotFoundError
		require.ErrorAs(t, err, &notFoundErr)
		assert.Equal(t, int64(4242), notFoundErr.Id)
	})
}

func TestGetAndDeleteCat(t *testing.T) {
	ctx := context.Background()
	agency, client := newClient(t, "Tabby")
	cat := agency.Seed(models.CatCreate{Name: "Phantom Thief", Breed: "Tabby", YearsOfExperience: 5, Salary: 555})[0]

	got, err := client.GetCat(ctx, cat.Id)
	require.NoError(t, err)
	assert.Equal(t, cat, got)

	require.NoError(t, client.DeleteCat(ctx, cat.Id))

	_, err = client.GetCat(ctx, cat.Id)
	var notFoundErr *myerrors.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)

	err = client.DeleteCat(ctx, cat.Id)
	require.ErrorAs(t, err, &notFoundErr, "a repeated delete is not idempotent")
	assert.Equal(t, "Cat not found", notFoundErr.Detail)
}

func TestListValidBreeds(t *testing.T) {
	_, client := newClient(t, "Tabby", "Siamese")
	breeds, err := client.ListValidBreeds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Tabby", "Siamese"}, breeds)
}

func TestErrorMapping(t *testing.T) {
	ctx := context.Background()

	t.Run("structured detail list is joined and tagged", func(t *testing.T) {
		agency, client := newClient(t, "Tabby")
		agency.FailNextWith(http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{
				{"loc": []any{"body", "breed"}, "msg": "breed is not valid"},
			},
		})
		_, err := client.CreateCat(ctx, models.CatCreate{Name: "X", Breed: "Tabby", Salary: 1})
		var validationErr *myerrors.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "breed is not valid", validationErr.Detail)
		assert.Equal(t, "breed", validationErr.Field)
	})

	t.Run("rejection without detail leaves Detail empty", func(t *testing.T) {
		agency, client := newClient(t, "Tabby")
		agency.FailNext(http.StatusConflict, "")
		_, err := client.CreateCat(ctx, models.CatCreate{Name: "X", Breed: "Tabby", Salary: 1})
		var validationErr *myerrors.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Empty(t, validationErr.Detail)
		assert.EqualError(t, err, "HTTP 409: Conflict")
		assert.Equal(t, "An error occurred", myerrors.DetailOr(err, "An error occurred"))
	})

	t.Run("legacy message key is read", func(t *testing.T) {
		agency, client := newClient(t)
		agency.FailNextWith(http.StatusBadRequest, map[string]any{"message": "no rows affected during the update"})
		_, err := client.UpdateCat(ctx, 1, models.CatUpdate{Salary: 1})
		assert.Equal(t, "no rows affected during the update", myerrors.Detail(err))
	})

	t.Run("server error becomes transport error keeping detail", func(t *testing.T) {
		agency, client := newClient(t)
		agency.FailNext(http.StatusInternalServerError, "database is down")
		_, err := client.ListCats(ctx)
		var transportErr *myerrors.TransportError
		require.ErrorAs(t, err, &transportErr)
		assert.Equal(t, "database is down", myerrors.Detail(err))
	})

	t.Run("unreachable agency is a transport error", func(t *testing.T) {
		client := agencyapi.NewClient("http://127.0.0.1:1", time.Second)
		_, err := client.ListValidBreeds(ctx)
		var transportErr *myerrors.TransportError
		require.ErrorAs(t, err, &transportErr)
		assert.Empty(t, myerrors.Detail(err))
	})
}

func TestRequestIDIsForwarded(t *testing.T) {
	agency, client := newClient(t)

	_, err := client.ListCats(slogx.WithRequestID(context.Background(), "01CLI"))
	require.NoError(t, err)
	_, err = client.ListCats(context.Background())
	require.NoError(t, err)

	requests := agency.RequestsTo(http.MethodGet, agencyapi.Endpoints.CatList)
	require.Len(t, requests, 2)
	assert.Equal(t, "01CLI", requests[0].RequestID)
	assert.Empty(t, requests[1].RequestID)
}

func TestMissions(t *testing.T) {
	ctx := context.Background()
	agency, client := newClient(t, "Tabby")
	cat := agency.Seed(models.CatCreate{Name: "Morgana", Breed: "Tabby", YearsOfExperience: 10, Salary: 5555})[0]

	mission, err := client.CreateMission(ctx, models.Mission{
		CatId: cat.Id,
		Targets: []models.Target{
			{Name: "Dog", Country: "UA"},
			{Name: "Mouse", Country: "PL"},
		},
	})
	require.NoError(t, err)
	require.Len(t, mission.Targets, 2)

	notes := "seen near the bakery"
	target, err := client.UpdateTarget(ctx, mission.Id, mission.Targets[0].Id, models.TargetUpdate{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, notes, target.Notes)

	done := true
	_, err = client.UpdateTarget(ctx, mission.Id, mission.Targets[0].Id, models.TargetUpdate{Completed: &done})
	require.NoError(t, err)

	_, err = client.UpdateTarget(ctx, mission.Id, mission.Targets[0].Id, models.TargetUpdate{Notes: &notes})
	var validationErr *myerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)

	missions, err := client.ListMissions(ctx)
	require.NoError(t, err)
	require.Len(t, missions, 1)
	assert.Equal(t, 1, missions[0].Done())

	_, err = client.UpdateTarget(ctx, 999, 1, models.TargetUpdate{Completed: &done})
	var notFoundErr *myerrors.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, "target", notFoundErr.Resource)
}
