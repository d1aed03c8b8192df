package routing

import (
	"bytes"
	"context"
	"courier-slot-service/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
)

type matrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
	Sources      []int       `json:"sources"`
}

type matrixResponse struct {
	Durations [][]*float64 `json:"durations"`
}

// fetchDuration retrieves the travel duration in seconds for a single leg
// using the OpenRouteService matrix endpoint.
func (o *ORSRoutingService) fetchDuration(
	ctx context.Context,
	from domain.Coordinates,
	to domain.Coordinates,
) (int, error) {
	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, o.profile)

	payload, err := json.Marshal(matrixRequest{
		Locations:    [][]float64{from.CoordsToList(), to.CoordsToList()},
		Sources:      []int{0},
		Destinations: []int{1},
		Metrics:      []string{"duration"},
	})
	if err != nil {
		return 0, fmt.Errorf("marshal matrix request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return 0, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return 0, fmt.Errorf("decode matrix response: %w", err)
	}

	if len(mr.Durations) != 1 || len(mr.Durations[0]) != 1 {
		return 0, fmt.Errorf("expected a 1x1 duration matrix; got %d rows", len(mr.Durations))
	}

	secondsPtr := mr.Durations[0][0]
	if secondsPtr == nil {
		return 0, errors.New("matrix returned no route for leg")
	}
	if *secondsPtr < 0 {
		return 0, fmt.Errorf("matrix returned negative duration %.1f", *secondsPtr)
	}

	// ORS returns float metrics; round to nearest integer for domain consistency.
	return int(math.Round(*secondsPtr)), nil
}
