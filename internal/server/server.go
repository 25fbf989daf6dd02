// Package server exposes the aggregated feed over HTTP.
package server

import (
	"errors"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/classify"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/content"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/trending"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/view"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// maxSearchResults caps the articles returned by /api/search.
const maxSearchResults = 20

type Config struct {
	Refresher   *Refresher
	PageSize    int
	CORSOrigins string
	// Ranker replaces the most-viewed shuffle when set.
	Ranker view.Ranker
	Now    func() time.Time
}

type ArticlesResponse struct {
	Items    []content.Item `json:"items"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
	Total    int            `json:"total"`
	HasMore  bool           `json:"hasMore"`
}

type TopicResponse struct {
	classify.Topic
	Count int `json:"count"`
}

type SearchResponse struct {
	Query       string         `json:"query"`
	Suggestions []string       `json:"suggestions"`
	Articles    []content.Item `json:"articles"`
}

type TrendingResponse struct {
	Tags    []trending.Tag         `json:"tags"`
	Sources []trending.SourceCount `json:"sources"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// New returns a fiber.App serving the article API.
func New(cfg Config) *fiber.App {
	if cfg.PageSize <= 0 {
		cfg.PageSize = view.DefaultPageSize
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.CORSOrigins == "" {
		cfg.CORSOrigins = "*"
	}
	h := &handlers{cfg: cfg}

	app := fiber.New(fiber.Config{
		AppName:               "trendlens",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	// Middleware to track the latency of each request
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
		route := c.Route().Path
		httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		httpLatency.WithLabelValues(route).Observe(latency.Seconds())

		log.WithFields(log.Fields{
			"method":  c.Method(),
			"route":   route,
			"status":  status,
			"latency": latency,
		}).Info("Request")
		return err
	})

	app.Use(requestid.New(requestid.ConfigDefault))
	app.Use(compress.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,OPTIONS",
	}))

	app.Get("/healthz", h.health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")
	api.Get("/articles", h.articles)
	api.Get("/podcasts", h.podcasts)
	api.Get("/topics", h.topics)
	api.Get("/topics/:slug", h.topic)
	api.Get("/search", h.search)
	api.Get("/trending", h.trending)
	api.Post("/refresh", h.refresh)

	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(errorResponse{Error: err.Error()})
}

type handlers struct {
	cfg Config
}

func (h *handlers) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":      "ok",
		"articles":    len(h.cfg.Refresher.Articles()),
		"refreshedAt": h.cfg.Refresher.RefreshedAt(),
	})
}

func (h *handlers) articles(c *fiber.Ctx) error {
	filter, err := view.ParseFilter(c.Query("category"), c.Query("dateRange"), c.Query("sortBy"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: view.Message(err), Detail: err.Error()})
	}
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "page must be a positive integer"})
	}

	all := h.cfg.Refresher.Articles()
	if len(all) == 0 {
		return c.Status(fiber.StatusServiceUnavailable).JSON(errorResponse{Error: view.Message(view.ErrNoArticles)})
	}

	// Seeding from the snapshot time keeps most-viewed pages consistent between requests.
	opts := view.Options{
		Rand:   rand.New(rand.NewSource(h.cfg.Refresher.RefreshedAt().UnixNano())),
		Ranker: h.cfg.Ranker,
	}
	derived, err := view.Derive(all, filter, h.cfg.Now(), opts)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: view.Message(err), Detail: err.Error()})
	}

	size := h.cfg.PageSize
	items := view.Page(derived, page-1, size)
	if items == nil {
		items = []content.Item{}
	}
	return c.JSON(ArticlesResponse{
		Items:    items,
		Page:     page,
		PageSize: size,
		Total:    len(derived),
		HasMore:  page*size < len(derived),
	})
}

func (h *handlers) podcasts(c *fiber.Ctx) error {
	episodes := h.cfg.Refresher.Episodes()
	if episodes == nil {
		episodes = []content.Episode{}
	}
	return c.JSON(episodes)
}

func (h *handlers) topics(c *fiber.Ctx) error {
	counts := lo.CountValuesBy(h.cfg.Refresher.Articles(), func(it content.Item) content.Category {
		return it.Category
	})
	out := lo.Map(classify.Topics(), func(t classify.Topic, _ int) TopicResponse {
		return TopicResponse{Topic: t, Count: counts[t.Category]}
	})
	return c.JSON(out)
}

func (h *handlers) topic(c *fiber.Ctx) error {
	t, err := classify.ResolveTopic(c.Params("slug"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	count := lo.CountBy(h.cfg.Refresher.Articles(), func(it content.Item) bool {
		return it.Category == t.Category
	})
	return c.JSON(TopicResponse{Topic: t, Count: count})
}

func (h *handlers) search(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	resp := SearchResponse{
		Query:       q,
		Suggestions: classify.Suggest(q),
		Articles:    []content.Item{},
	}
	if resp.Suggestions == nil {
		resp.Suggestions = []string{}
	}
	if q != "" {
		needle := strings.ToLower(q)
		matches := lo.Filter(h.cfg.Refresher.Articles(), func(it content.Item, _ int) bool {
			return strings.Contains(strings.ToLower(it.Title), needle) ||
				strings.Contains(strings.ToLower(it.Excerpt), needle)
		})
		if len(matches) > maxSearchResults {
			matches = matches[:maxSearchResults]
		}
		resp.Articles = matches
	}
	return c.JSON(resp)
}

func (h *handlers) trending(c *fiber.Ctx) error {
	all := h.cfg.Refresher.Articles()
	now := h.cfg.Now()
	tags := trending.Compute(all, now, trending.DefaultLimit)
	if tags == nil {
		tags = []trending.Tag{}
	}
	return c.JSON(TrendingResponse{
		Tags:    tags,
		Sources: trending.ActiveSources(trending.Recent(all, now), 5),
	})
}

func (h *handlers) refresh(c *fiber.Ctx) error {
	err := h.cfg.Refresher.Refresh(c.UserContext())
	switch {
	case errors.Is(err, view.ErrNoArticles):
		return c.Status(fiber.StatusServiceUnavailable).JSON(errorResponse{Error: view.Message(err)})
	case err != nil:
		return c.Status(fiber.StatusBadGateway).JSON(errorResponse{Error: view.Message(err), Detail: err.Error()})
	}
	return c.JSON(fiber.Map{
		"articles":    len(h.cfg.Refresher.Articles()),
		"refreshedAt": h.cfg.Refresher.RefreshedAt(),
	})
}
