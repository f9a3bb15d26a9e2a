package agencyapi

import (
	"context"
	"net/http"

	"github.com/4oBuko/spy-cat-console/internal/models"
)

func (c *Client) ListCats(ctx context.Context) ([]models.Cat, error) {
	resp, err := c.do(ctx, "list cats", http.MethodGet, Endpoints.CatList, nil)
	if err != nil {
		return nil, err
	}
	cats := []models.Cat{}
	if err := decodeJSON("list cats", 0, resp, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (c *Client) GetCat(ctx context.Context, id int64) (models.Cat, error) {
	resp, err := c.do(ctx, "get cat", http.MethodGet, Path(Endpoints.CatGet, id), nil)
	if err != nil {
		return models.Cat{}, err
	}
	var cat models.Cat
	if err := decodeJSON("get cat", id, resp, &cat); err != nil {
		return models.Cat{}, err
	}
	return cat, nil
}

func (c *Client) CreateCat(ctx context.Context, newCat models.CatCreate) (models.Cat, error) {
	resp, err := c.do(ctx, "create cat", http.MethodPost, Endpoints.CatCreate, newCat)
	if err != nil {
		return models.Cat{}, err
	}
	var cat models.Cat
	if err := decodeJSON("create cat", 0, resp, &cat); err != nil {
		return models.Cat{}, err
	}
	return cat, nil
}

func (c *Client) UpdateCat(ctx context.Context, id int64, update models.CatUpdate) (models.Cat, error) {
	resp, err := c.do(ctx, "update cat", http.MethodPut, Path(Endpoints.CatUpdate, id), update)
	if err != nil {
		return models.Cat{}, err
	}
	var cat models.Cat
	if err := decodeJSON("update cat", id, resp, &cat); err != nil {
		return models.Cat{}, err
	}
	return cat, nil
}

// DeleteCat is not idempotent: deleting an id twice yields NotFoundError.
func (c *Client) DeleteCat(ctx context.Context, id int64) error {
	resp, err := c.do(ctx, "delete cat", http.MethodDelete, Path(Endpoints.CatDelete, id), nil)
	if err != nil {
		return err
	}
	return decodeJSON("delete cat", id, resp, nil)
}

func (c *Client) ListValidBreeds(ctx context.Context) ([]string, error) {
	resp, err := c.do(ctx, "list breeds", http.MethodGet, Endpoints.ValidBreeds, nil)
	if err != nil {
		return nil, err
	}
	breeds := []string{}
	if err := decodeJSON("list breeds", 0, resp, &breeds); err != nil {
		return nil, err
	}
	return breeds, nil
}
