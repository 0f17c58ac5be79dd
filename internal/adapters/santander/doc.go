// Package santander implementa o adaptador para a API de pagamentos do Santander.
//
// Este pacote implementa:
//   - Autenticação OAuth2 (client credentials) com renovação antecipada do token
//   - Cliente HTTP com mTLS, templating de workspace e log condicional
//   - Transferências PIX por chave ou por dados bancários, acompanhadas até a liquidação
//   - Comprovantes de pagamento com recuperação de "comprovante já solicitado"
//   - Listagem paginada de comprovantes
//
// # Autenticação
//
// A API Santander usa OAuth2 com mTLS (mutual TLS). Você precisa:
//   - Client ID e Client Secret (do portal do desenvolvedor)
//   - Certificado .pem, .p12 ou o par cert/key
//
// # Início Rápido
//
// Criar o SDK (sem workspace configurada, a primeira workspace PAYMENTS ativa é usada):
//
//	cfg, err := config.Load()
//	sdk, err := santander.New(ctx, cfg.Santander, santander.WithLogger(logger))
//
// Enviar um PIX por chave:
//
//	result := sdk.Transfer(ctx, domain.PixTransferRequest{
//	    PixKey:      "user@example.com",
//	    Value:       decimal.RequireFromString("10.99"),
//	    Description: "aluguel",
//	})
//	if !result.Success {
//	    log.Printf("falha (%s): %s", result.ErrorKind, result.Error)
//	}
//
// Transfer nunca retorna erro: o resultado traz Success, Data e ErrorKind.
// Um timeout aguardando PAYED depois da confirmação ainda é sucesso, com o
// último status observado em Data.
//
// # Comprovantes
//
//	receipt, err := sdk.CreateReceipt(ctx, result.Data.ID)
//	if receipt.IsAvailable() {
//	    fmt.Println(receipt.Location)
//	}
//
// Listar página a página:
//
//	pager := sdk.Receipts().Pages(url.Values{"start_date": {"2024-01-01"}})
//	for pager.Next(ctx) {
//	    for _, r := range pager.Page() { ... }
//	}
//
// # Tratamento de Erros
//
// Erros de requisição são do tipo *RequestError com StatusCode e o corpo
// de erro em Content. Use os helpers para verificar:
//
//	if santander.IsNotFound(err) { ... }
//	if santander.IsAlreadyRequestedReceipt(err) { ... }
//	if santander.IsInvalidArgument(err) { ... }
package santander
