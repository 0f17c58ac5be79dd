package santander

import (
	"context"

	"github.com/magnani/santander-payments/internal/domain"
)

// WorkspacesEndpoint lista as workspaces do parceiro
const WorkspacesEndpoint = "/management_payments_partners/v1/workspaces"

type workspaceList struct {
	Content []domain.Workspace `json:"_content"`
}

// ListWorkspaces consulta as workspaces da conta
func ListWorkspaces(ctx context.Context, c *Client) ([]domain.Workspace, error) {
	raw, err := c.Get(ctx, WorkspacesEndpoint, nil)
	if err != nil {
		return nil, err
	}

	list, err := decodeResponse[workspaceList](raw, "listagem de workspaces")
	if err != nil {
		return nil, err
	}
	return list.Content, nil
}

// FirstWorkspaceOfType retorna a primeira workspace ativa do tipo informado
func FirstWorkspaceOfType(ctx context.Context, c *Client, workspaceType string) (string, error) {
	workspaces, err := ListWorkspaces(ctx, c)
	if err != nil {
		return "", err
	}

	for _, w := range workspaces {
		if w.Type == workspaceType && w.Status == domain.WorkspaceStatusActive && w.ID != "" {
			return w.ID, nil
		}
	}
	return "", NewClientError("conta sem workspace " + workspaceType + " ativa na configuração e na conta")
}

// ResolveWorkspace encontra a workspace de pagamentos usada nos endpoints PIX
func ResolveWorkspace(ctx context.Context, c *Client) (string, error) {
	return FirstWorkspaceOfType(ctx, c, domain.WorkspaceTypePayments)
}
