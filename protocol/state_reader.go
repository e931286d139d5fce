package protocol

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"

	"github.com/aimosphere-network/airo-wingman/models"
)

// GetAgreement reads an agreement's ModelID via the execution contract's
// agreements(uint32) view function. Returns ok=false, nil error when the
// agreement does not exist or is inactive.
func (a *Adapter) GetAgreement(ctx context.Context, agreementID models.AgreementId) (*models.AgreementDetails, bool, error) {
	var out []interface{}
	opts := &bind.CallOpts{Context: ctx}
	err := a.execContract.Call(opts, &out, "agreements", uint32(agreementID))
	if err != nil {
		return nil, false, fmt.Errorf("agreements(%d): %w", agreementID, err)
	}
	if len(out) != 2 {
		return nil, false, fmt.Errorf("agreements(%d): unexpected output shape", agreementID)
	}

	modelIDRaw, ok := out[0].([]byte)
	if !ok {
		return nil, false, fmt.Errorf("agreements(%d): modelId not bytes", agreementID)
	}
	isActive, ok := out[1].(bool)
	if !ok {
		return nil, false, fmt.Errorf("agreements(%d): isActive not bool", agreementID)
	}
	if !isActive {
		return nil, false, nil
	}

	return &models.AgreementDetails{ModelID: models.ModelId(modelIDRaw)}, true, nil
}
