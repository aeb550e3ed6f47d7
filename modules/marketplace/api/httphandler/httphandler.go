package httphandler

import (
	"github.com/tickr-network/tickr/common"
	"github.com/tickr-network/tickr/modules/marketplace"
	"github.com/tickr-network/tickr/modules/marketplace/usecase"
)

type HttpHandler struct {
	usecase         *usecase.Usecase
	processor       *marketplace.Processor
	entryPassSecret []byte
}

func New(usecase *usecase.Usecase, processor *marketplace.Processor, entryPassSecret []byte) *HttpHandler {
	return &HttpHandler{
		usecase:         usecase,
		processor:       processor,
		entryPassSecret: entryPassSecret,
	}
}

type HttpResponse[T any] = common.HttpResponse[T]

func parseAddress(s string) (common.Address, bool) {
	if s == "" {
		return common.Address{}, false
	}
	addr, err := common.NewAddressFromString(s)
	if err != nil {
		return common.Address{}, false
	}
	return addr, true
}
