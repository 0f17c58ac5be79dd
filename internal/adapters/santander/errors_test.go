package santander

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magnani/santander-payments/internal/domain"
)

func TestRequestError_ErrorCodes(t *testing.T) {
	err := &RequestError{
		StatusCode: http.StatusBadRequest,
		Content: map[string]any{
			"errors": []any{
				map[string]any{"code": "006", "message": "já solicitado"},
				"ignorado",
				map[string]any{"code": 7},
				map[string]any{"code": "010"},
			},
		},
	}

	assert.Equal(t, []string{"006", "010"}, err.ErrorCodes())
	assert.True(t, err.HasErrorCode("006"))
	assert.False(t, err.HasErrorCode("007"))
	assert.Empty(t, (&RequestError{}).ErrorCodes())
}

func TestIsAlreadyRequestedReceipt(t *testing.T) {
	body := map[string]any{"errors": []any{map[string]any{"code": "006"}}}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"400 com 006", &RequestError{StatusCode: 400, Content: body}, true},
		{"envolvido", fmt.Errorf("criar: %w", &RequestError{StatusCode: 400, Content: body}), true},
		{"422 com 006", &RequestError{StatusCode: 422, Content: body}, false},
		{"400 sem código", &RequestError{StatusCode: 400}, false},
		{"outro erro", errors.New("x"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAlreadyRequestedReceipt(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	rejected := &RejectedError{Step: domain.TransferStepConfirm, Reason: "saldo insuficiente"}
	assert.Contains(t, rejected.Error(), "CONFIRM")
	assert.Contains(t, rejected.Error(), "saldo insuficiente")

	timeout := &StatusTimeoutError{Step: domain.TransferStepCreate, Attempts: 10}
	assert.Contains(t, timeout.Error(), "CREATE")
	assert.Contains(t, timeout.Error(), "10")

	reqErr := &RequestError{Message: "falhou"}
	assert.Contains(t, reqErr.Error(), "sem detalhes da resposta")

	wrapped := &ClientError{Message: "recuperação", Err: ErrReceiptHistoryEmpty}
	assert.True(t, errors.Is(wrapped, ErrReceiptHistoryEmpty))
	assert.True(t, IsClientError(wrapped))
}

func TestClassifyError(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want domain.ErrorKind
	}{
		{"argumento", context.Background(), invalidArgument("x"), domain.ErrorKindInvalidArgument},
		{"rejeitado", context.Background(), &RejectedError{Step: domain.TransferStepCreate}, domain.ErrorKindRejected},
		{"timeout", context.Background(), &StatusTimeoutError{Step: domain.TransferStepCreate}, domain.ErrorKindStatusTimeout},
		{"requisição", context.Background(), &RequestError{StatusCode: 500}, domain.ErrorKindRequest},
		{"cliente", context.Background(), NewClientError("x"), domain.ErrorKindClient},
		{"contexto cancelado", canceled, &RequestError{Err: context.Canceled}, domain.ErrorKindCanceled},
		{"desconhecido", context.Background(), errors.New("boom"), domain.ErrorKindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyError(tt.ctx, tt.err))
		})
	}
}
