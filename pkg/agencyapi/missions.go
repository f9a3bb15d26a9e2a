package agencyapi

import (
	"context"
	"net/http"

	"github.com/4oBuko/spy-cat-console/internal/models"
)

func (c *Client) ListMissions(ctx context.Context) ([]models.Mission, error) {
	resp, err := c.do(ctx, "list missions", http.MethodGet, Endpoints.MissionList, nil)
	if err != nil {
		return nil, err
	}
	missions := []models.Mission{}
	if err := decodeJSON("list missions", 0, resp, &missions); err != nil {
		return nil, err
	}
	return missions, nil
}

func (c *Client) CreateMission(ctx context.Context, mission models.Mission) (models.Mission, error) {
	resp, err := c.do(ctx, "create mission", http.MethodPost, Endpoints.MissionCreate, mission)
	if err != nil {
		return models.Mission{}, err
	}
	var saved models.Mission
	if err := decodeJSON("create mission", 0, resp, &saved); err != nil {
		return models.Mission{}, err
	}
	return saved, nil
}

func (c *Client) UpdateTarget(ctx context.Context, missionId, targetId int64, update models.TargetUpdate) (models.Target, error) {
	path := Path(Endpoints.TargetUpdate, missionId, targetId)
	resp, err := c.do(ctx, "update target", http.MethodPut, path, update)
	if err != nil {
		return models.Target{}, err
	}
	var target models.Target
	if err := decodeJSON("update target", targetId, resp, &target); err != nil {
		return models.Target{}, err
	}
	return target, nil
}
