package recordstore

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/seydifall/dindetrack/internal/config"
	"github.com/seydifall/dindetrack/internal/domain/models"
)

// Client is a resty-backed implementation of the record store collaborator.
// Responses decode into explicit, null-aware structs at this boundary so
// the rollup core never inspects loose maps.
type Client struct {
	httpClient *resty.Client
}

// apiError mirrors the record store's error payload.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// NewClient builds a record store client from configuration.
func NewClient(cfg config.RecordStoreConfig) *Client {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)
	if cfg.APIToken != "" {
		restyClient.SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIToken))
	}

	return &Client{httpClient: restyClient}
}

// GetSetup fetches the placement configuration of one dimension. A scope
// with no saved setup yields (nil, nil).
func (c *Client) GetSetup(ctx context.Context, farmID, lot, batiment, sexe string) (*models.SetupRecord, error) {
	setup := new(models.SetupRecord)
	found, err := c.get(ctx, setup, "/farms/{farmId}/lots/{lot}/setup", map[string]string{
		"farmId": farmID,
		"lot":    lot,
	}, batiment, sexe)
	if err != nil || !found {
		return nil, err
	}
	return setup, nil
}

// GetWeekly fetches the daily technical tracking rows of one
// (dimension, semaine) scope.
func (c *Client) GetWeekly(ctx context.Context, farmID, lot, semaine, batiment, sexe string) ([]models.DailyTrackingRecord, error) {
	var daily []models.DailyTrackingRecord
	found, err := c.get(ctx, &daily, "/farms/{farmId}/lots/{lot}/weeks/{semaine}/hebdo", map[string]string{
		"farmId":  farmID,
		"lot":     lot,
		"semaine": semaine,
	}, batiment, sexe)
	if err != nil || !found {
		return nil, err
	}
	return daily, nil
}

// GetProduction fetches the weekly production record of one dimension.
func (c *Client) GetProduction(ctx context.Context, farmID, lot, semaine, batiment, sexe string) (*models.ProductionRecord, error) {
	production := new(models.ProductionRecord)
	found, err := c.get(ctx, production, "/farms/{farmId}/lots/{lot}/weeks/{semaine}/production", map[string]string{
		"farmId":  farmID,
		"lot":     lot,
		"semaine": semaine,
	}, batiment, sexe)
	if err != nil || !found {
		return nil, err
	}
	return production, nil
}

// GetStock fetches the backend-computed stock snapshot of one dimension.
func (c *Client) GetStock(ctx context.Context, farmID, lot, semaine, batiment, sexe string) (*models.StockRecord, error) {
	stock := new(models.StockRecord)
	found, err := c.get(ctx, stock, "/farms/{farmId}/lots/{lot}/weeks/{semaine}/stock", map[string]string{
		"farmId":  farmID,
		"lot":     lot,
		"semaine": semaine,
	}, batiment, sexe)
	if err != nil || !found {
		return nil, err
	}
	return stock, nil
}

// ListWeeks returns every week label that has tracking data for one
// dimension, in store order.
func (c *Client) ListWeeks(ctx context.Context, farmID, lot, batiment, sexe string) ([]string, error) {
	var weeks []string
	_, err := c.get(ctx, &weeks, "/farms/{farmId}/lots/{lot}/weeks", map[string]string{
		"farmId": farmID,
		"lot":    lot,
	}, batiment, sexe)
	if err != nil {
		return nil, err
	}
	return weeks, nil
}

// get performs one scoped GET. It reports found=false on 404 so callers
// can treat "never entered" scopes as plain absence rather than failure.
func (c *Client) get(ctx context.Context, result any, path string, pathParams map[string]string, batiment, sexe string) (bool, error) {
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParams(pathParams).
		SetQueryParam("batiment", batiment).
		SetQueryParam("sexe", sexe).
		SetResult(result).
		SetError(apiErr).
		Get(path)
	if err != nil {
		return false, fmt.Errorf("record store get %s: %w", path, err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		message := apiErr.Error.Message
		code := resp.StatusCode()
		if apiErr.Error.Code != 0 {
			code = apiErr.Error.Code
		}
		return false, fmt.Errorf("record store error: code=%d, message=%s", code, message)
	}
	return true, nil
}
