package agencyapi

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/4oBuko/spy-cat-console/internal/models"
)

// AgencyAPI is the console's view of the spy cat agency service. It performs
// no caching and no retries; every call is exactly one request.
type AgencyAPI interface {
	ListCats(ctx context.Context) ([]models.Cat, error)
	GetCat(ctx context.Context, id int64) (models.Cat, error)
	CreateCat(ctx context.Context, cat models.CatCreate) (models.Cat, error)
	UpdateCat(ctx context.Context, id int64, update models.CatUpdate) (models.Cat, error)
	DeleteCat(ctx context.Context, id int64) error
	ListValidBreeds(ctx context.Context) ([]string, error)

	ListMissions(ctx context.Context) ([]models.Mission, error)
	CreateMission(ctx context.Context, mission models.Mission) (models.Mission, error)
	UpdateTarget(ctx context.Context, missionId, targetId int64, update models.TargetUpdate) (models.Target, error)
}

var Endpoints = struct {
	CatList     string
	CatGet      string
	CatCreate   string
	CatUpdate   string
	CatDelete   string
	ValidBreeds string

	MissionList   string
	MissionCreate string
	TargetUpdate  string
}{
	CatList:     "/api/cats/",
	CatGet:      "/api/cats/:id",
	CatCreate:   "/api/cats/",
	CatUpdate:   "/api/cats/:id",
	CatDelete:   "/api/cats/:id",
	ValidBreeds: "/api/cats/breeds/valid",

	MissionList:   "/api/missions/",
	MissionCreate: "/api/missions/",
	TargetUpdate:  "/api/missions/:id/targets/:targetId",
}

// Path fills the ":param" placeholders of an endpoint pattern in order.
func Path(pattern string, ids ...int64) string {
	segments := strings.Split(pattern, "/")
	next := 0
	for i, segment := range segments {
		if strings.HasPrefix(segment, ":") && next < len(ids) {
			segments[i] = strconv.FormatInt(ids[next], 10)
			next++
		}
	}
	return strings.Join(segments, "/")
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}
