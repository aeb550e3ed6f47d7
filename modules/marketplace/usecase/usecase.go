package usecase

import (
	"github.com/tickr-network/tickr/modules/marketplace/datagateway"
)

type Usecase struct {
	marketplaceDg datagateway.MarketplaceDataGateway
}

func New(marketplaceDg datagateway.MarketplaceDataGateway) *Usecase {
	return &Usecase{
		marketplaceDg: marketplaceDg,
	}
}
