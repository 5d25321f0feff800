package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultRandomAPI = "http://www.randomnumberapi.com/api/v1.0/randomnumber"

// RandomHandler proxies a third-party random number service. It carries no
// state of ours; it exists because the frontend already uses it.
type RandomHandler struct {
	client  *http.Client
	baseURL string
}

func NewRandomHandler(baseURL string) *RandomHandler {
	if baseURL == "" {
		baseURL = defaultRandomAPI
	}

	return &RandomHandler{
		client:  &http.Client{Timeout: 5 * time.Second},
		baseURL: baseURL,
	}
}

func (h *RandomHandler) GetRandomNumber(ctx *gin.Context) {
	req, err := http.NewRequestWithContext(ctx.Request.Context(), http.MethodGet, h.baseURL, nil)

	if err != nil {
		RespondInternal(ctx, "Could not fetch random number")
		return
	}

	resp, err := h.client.Do(req)

	if err != nil {
		RespondInternal(ctx, "Could not fetch random number")
		return
	}

	defer func() { _ = resp.Body.Close() }()

	var numbers []int

	if err := json.NewDecoder(resp.Body).Decode(&numbers); err != nil || len(numbers) == 0 {
		RespondInternal(ctx, "Could not fetch random number")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"your random number is": numbers[0]})
}
