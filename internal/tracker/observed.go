package tracker

import "context"

// CallObserver is told about every tracker call and its outcome.
type CallObserver func(op string, err error)

// Observed reports each call of the wrapped client to an observer.
type Observed struct {
	next    Client
	observe CallObserver
}

func WithObserver(next Client, observe CallObserver) *Observed {
	return &Observed{next: next, observe: observe}
}

func (o *Observed) QueryByTag(ctx context.Context, tag string) ([]string, error) {
	ids, err := o.next.QueryByTag(ctx, tag)
	o.observe("query", err)
	return ids, err
}

func (o *Observed) GetDetails(ctx context.Context, id string) (*ItemDetails, error) {
	d, err := o.next.GetDetails(ctx, id)
	o.observe("get", err)
	return d, err
}

func (o *Observed) UpdateFields(ctx context.Context, id string, f Fields) error {
	err := o.next.UpdateFields(ctx, id, f)
	o.observe("update", err)
	return err
}

func (o *Observed) CreateItem(ctx context.Context, item NewItem) (string, error) {
	id, err := o.next.CreateItem(ctx, item)
	o.observe("create", err)
	return id, err
}

func (o *Observed) AddParentRelation(ctx context.Context, childID, parentID string) error {
	err := o.next.AddParentRelation(ctx, childID, parentID)
	o.observe("relate", err)
	return err
}
