package contract

import "github.com/alexanderramin/cadence/internal/app"

type CreateRequest = app.CreateRequest

func NewCreateRequest(path string) CreateRequest {
	return app.NewCreateRequest(path)
}

type CreatedItem = app.CreatedItem

type CreateResponse = app.CreateResponse
