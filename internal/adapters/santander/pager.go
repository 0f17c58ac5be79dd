package santander

import (
	"context"
	"encoding/json"
	"net/url"
)

// pageLinks é o bloco de navegação das listagens paginadas
type pageLinks struct {
	Links struct {
		Next *struct {
			Href string `json:"href"`
		} `json:"_next"`
	} `json:"links"`
}

// Pager percorre uma listagem paginada, uma página por chamada de Next.
// Avança apenas para frente; o offset da próxima página vem do link _next
// da resposta anterior.
//
//	pager := receipts.Pages(params)
//	for pager.Next(ctx) {
//		for _, item := range pager.Page() { ... }
//	}
//	if err := pager.Err(); err != nil { ... }
type Pager[T any] struct {
	fetch    func(ctx context.Context, params url.Values) (json.RawMessage, error)
	params   url.Values
	itemsKey string

	started bool
	done    bool
	next    string
	page    []T
	raw     json.RawMessage
	err     error
}

func newPager[T any](fetch func(context.Context, url.Values) (json.RawMessage, error), params url.Values, itemsKey string) *Pager[T] {
	return &Pager[T]{
		fetch:    fetch,
		params:   params,
		itemsKey: itemsKey,
	}
}

// Next busca a próxima página. Retorna false ao fim da listagem ou em erro.
func (p *Pager[T]) Next(ctx context.Context) bool {
	if p.done {
		return false
	}

	if p.started {
		offset, ok := offsetFromLink(p.next)
		if !ok {
			p.finish()
			return false
		}
		p.params.Set("_offset", offset)
	}
	p.started = true

	raw, err := p.fetch(ctx, p.params)
	if err != nil {
		p.err = err
		p.finish()
		return false
	}

	page, next, err := p.decode(raw)
	if err != nil {
		p.err = err
		p.finish()
		return false
	}

	p.raw = raw
	p.page = page
	p.next = next
	return true
}

// Page retorna os itens da página atual
func (p *Pager[T]) Page() []T {
	return p.page
}

// Raw retorna o corpo completo da página atual
func (p *Pager[T]) Raw() json.RawMessage {
	return p.raw
}

// Err retorna o erro que interrompeu a paginação
func (p *Pager[T]) Err() error {
	return p.err
}

// All percorre as páginas restantes e concatena os itens em ordem
func (p *Pager[T]) All(ctx context.Context) ([]T, error) {
	items := []T{}
	for p.Next(ctx) {
		items = append(items, p.page...)
	}
	if p.err != nil {
		return nil, p.err
	}
	return items, nil
}

func (p *Pager[T]) finish() {
	p.done = true
	p.page = nil
	p.raw = nil
}

func (p *Pager[T]) decode(raw json.RawMessage) ([]T, string, error) {
	fields, err := decodeResponse[map[string]json.RawMessage](raw, "página da listagem")
	if err != nil {
		return nil, "", err
	}

	var page []T
	if items, ok := (*fields)[p.itemsKey]; ok && string(items) != "null" {
		if err := json.Unmarshal(items, &page); err != nil {
			return nil, "", &ClientError{Message: "itens malformados na página da listagem", Err: err}
		}
	}

	var links pageLinks
	_ = json.Unmarshal(raw, &links)
	if links.Links.Next == nil {
		return page, "", nil
	}
	return page, links.Links.Next.Href, nil
}

// offsetFromLink extrai o parâmetro _offset do link da próxima página
func offsetFromLink(link string) (string, bool) {
	if link == "" {
		return "", false
	}
	u, err := url.Parse(link)
	if err != nil {
		return "", false
	}
	offset := u.Query().Get("_offset")
	return offset, offset != ""
}
