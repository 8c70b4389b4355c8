package settlement

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dolpagu/dispute-service/internal/domain"
	"github.com/jaevor/go-nanoid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type executeRequest struct {
	OperationID  string `json:"operation_id"`
	DisputeID    string `json:"dispute_id"`
	RefundAmount int64  `json:"refund_amount"`
	PayerID      string `json:"payer_id"`
	PayeeID      string `json:"payee_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HTTPSettlementClient asks the settlement service to move funds once a
// dispute is resolved. This service only decides the amount.
type HTTPSettlementClient struct {
	Address    string
	httpClient *http.Client
	newOpID    func() string
}

func NewHTTPSettlementClient(address string) (*HTTPSettlementClient, error) {
	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		return nil, err
	}
	return &HTTPSettlementClient{
		Address:    address,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		newOpID:    idGenerator,
	}, nil
}

func (h *HTTPSettlementClient) TriggerSettlement(ctx context.Context, order *domain.SettlementOrder) error {
	requestBodyBytes, err := json.Marshal(executeRequest{
		OperationID:  h.newOpID(),
		DisputeID:    order.DisputeID,
		RefundAmount: order.RefundAmount,
		PayerID:      order.PayerID,
		PayeeID:      order.PayeeID,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/settlements/execute", h.Address), bytes.NewReader(requestBodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	response, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return nil
	}
	var errResponse errorResponse
	if err := json.Unmarshal(responseBodyBytes, &errResponse); err != nil {
		return status.Error(codes.Internal, fmt.Sprintf("settlement failed with status %d", response.StatusCode))
	}
	return errors.New(errResponse.Error)
}
