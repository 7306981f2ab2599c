// internal/clients/geoiq/client.go

// Package geoiq is the client for the GeoIQ location-intelligence API.
package geoiq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"kyb-workers/internal/common/config"
	httpclient "kyb-workers/internal/common/http"
	"kyb-workers/internal/scoring/geo"
)

// defaultVariables is the neighborhood variable set the location grader
// consumes: income, commercial, premium-retail and healthcare indicators.
// The API caps one request at 50 variables.
var defaultVariables = []string{
	"p_retail_rppsfa",
	"residence_arpsf",
	"retail_rppsfa",
	"d_residence_rppsfa",
	"d_comm_rppsfa",
	"w_pop_tt",
	"w_hh_income_5l_above_perc",
	"w_hh_income_10l_above_perc",
	"w_hh_income_20l_above_perc",
	"avail_assets_car_jeep_van",
	"p_retail_gc_np",
	"p_restaurant_rt_np",
	"p_dist_sm",
	"br_v2shoppingmart_ct",
	"o_land_bl",
	"p_work_of_np_pincode",
	"secc_p_hh_pay_it_pt_r",
	"br_restaurant_ch_nt",
	"br_apollohospitals_ct",
	"br_maxhealthcare_ct",
	"br_fortishealthcare_ct",
	"br_medantathemedicity_ct",
	"br_clovedental_ct",
	"br_lifestyle_ct",
	"br_shoppersstop_ct",
	"br_pantaloons_ct",
	"br_westside_ct",
	"br_central_ct",
	"br_maxfashion_ct",
	"br_zara_ct",
	"br_miniso_ct",
	"br_calvinklein_ct",
	"br_tommyhilfiger_ct",
	"br_tanishq_ct",
	"br_kalyanjewellers_ct",
	"br_cult_ct",
	"br_goldsgym_ct",
	"br_anytimefitness_ct",
	"br_gym_ch_nt",
	"br_pvrcinemas_ct",
	"br_inoxleisurelimited_ct",
	"br_nike_ct",
	"br_adidas_ct",
	"br_puma_ct",
	"br_decathlon_ct",
}

// Client calls the GeoIQ getvariables endpoint.
type Client struct {
	http      *httpclient.Client
	baseURL   string
	apiKey    string
	radius    int
	variables []string
}

func NewClient(cfg config.GeoIQConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	radius := cfg.RadiusMeters
	if radius <= 0 {
		radius = 1000
	}
	return &Client{
		http:      httpclient.NewClient(timeout),
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		radius:    radius,
		variables: defaultVariables,
	}
}

type variablesRequest struct {
	Address   string  `json:"address,omitempty"`
	Lat       float64 `json:"lat,omitempty"`
	Lng       float64 `json:"lng,omitempty"`
	Radius    int     `json:"radius"`
	Variables string  `json:"variables"`
}

// variablesResponse covers both response shapes the API emits: data at the
// top level, or a JSON-encoded body string wrapping {status, data}.
type variablesResponse struct {
	Status int                `json:"status"`
	Data   map[string]float64 `json:"data"`
	Body   json.RawMessage    `json:"body"`
}

type variablesBody struct {
	Status int                `json:"status"`
	Data   map[string]float64 `json:"data"`
}

// LookupAddress fetches the variable set for an address. Implements the
// location grader's VariableSource contract.
func (c *Client) LookupAddress(ctx context.Context, address string) (geo.LookupResult, error) {
	payload := variablesRequest{
		Address:   address,
		Radius:    c.radius,
		Variables: strings.Join(c.variables, ","),
	}
	vars, err := c.getVariables(ctx, payload)
	if err != nil {
		return geo.LookupResult{}, err
	}
	return geo.LookupResult{Variables: vars}, nil
}

// LookupCoordinates fetches the variable set for a lat/lng pair.
func (c *Client) LookupCoordinates(ctx context.Context, lat, lng float64) (geo.LookupResult, error) {
	payload := variablesRequest{
		Lat:       lat,
		Lng:       lng,
		Radius:    c.radius,
		Variables: strings.Join(c.variables, ","),
	}
	vars, err := c.getVariables(ctx, payload)
	if err != nil {
		return geo.LookupResult{}, err
	}
	return geo.LookupResult{Variables: vars}, nil
}

func (c *Client) getVariables(ctx context.Context, payload variablesRequest) (map[string]float64, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding geoiq request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/getvariables", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building geoiq request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling geoiq: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geoiq returned %s", res.Status)
	}

	var parsed variablesResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding geoiq response: %w", err)
	}
	return extractData(parsed)
}

func extractData(parsed variablesResponse) (map[string]float64, error) {
	if len(parsed.Body) > 0 {
		// body is either a nested object or a JSON-encoded string of one.
		raw := parsed.Body
		var asString string
		if err := json.Unmarshal(parsed.Body, &asString); err == nil {
			raw = json.RawMessage(asString)
		}
		var nested variablesBody
		if err := json.Unmarshal(raw, &nested); err == nil && nested.Status == 200 {
			return nested.Data, nil
		}
	}
	if parsed.Status == 200 && parsed.Data != nil {
		return parsed.Data, nil
	}
	return nil, fmt.Errorf("geoiq payload status %d", parsed.Status)
}
