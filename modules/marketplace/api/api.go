package api

import (
	"github.com/tickr-network/tickr/modules/marketplace"
	"github.com/tickr-network/tickr/modules/marketplace/api/httphandler"
	"github.com/tickr-network/tickr/modules/marketplace/usecase"
)

func NewHTTPHandler(usecase *usecase.Usecase, processor *marketplace.Processor, entryPassSecret []byte) *httphandler.HttpHandler {
	return httphandler.New(usecase, processor, entryPassSecret)
}
