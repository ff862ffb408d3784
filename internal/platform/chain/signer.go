package chain

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// eip712Domain matches the domain the contract verifies claim signatures
// against. Name and version are fixed in the contract.
const (
	domainName    = "FlowClicker"
	domainVersion = "1"
)

// Signer produces EIP-712 signatures over Claim{player, clicks, nonce} with
// the server-held owner key.
type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
	domain  apitypes.TypedDataDomain
}

// NewSigner parses a hex private key and binds the EIP-712 domain.
func NewSigner(hexKey string, chainID int64, contract common.Address) (*Signer, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse signer key: %w", err)
	}
	return &Signer{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		domain: apitypes.TypedDataDomain{
			Name:              domainName,
			Version:           domainVersion,
			ChainId:           math.NewHexOrDecimal256(chainID),
			VerifyingContract: contract.Hex(),
		},
	}, nil
}

// Address returns the authorizer address corresponding to the signing key.
func (s *Signer) Address() common.Address {
	return s.address
}

// SignClaim returns a 65-byte signature with the Ethereum-style V offset, the
// format the contract's ecrecover expects.
func (s *Signer) SignClaim(player common.Address, clicks, nonce *big.Int) (string, error) {
	hash, err := s.ClaimDigest(player, clicks, nonce)
	if err != nil {
		return "", err
	}

	sig, err := crypto.Sign(hash, s.key)
	if err != nil {
		return "", fmt.Errorf("sign claim: %w", err)
	}
	sig[64] += 27

	return hexutil.Encode(sig), nil
}

// ClaimDigest computes the EIP-712 digest for a claim authorization.
func (s *Signer) ClaimDigest(player common.Address, clicks, nonce *big.Int) ([]byte, error) {
	typedData := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"Claim": {
				{Name: "player", Type: "address"},
				{Name: "clicks", Type: "uint256"},
				{Name: "nonce", Type: "uint256"},
			},
		},
		PrimaryType: "Claim",
		Domain:      s.domain,
		Message: apitypes.TypedDataMessage{
			"player": player.Hex(),
			"clicks": (*math.HexOrDecimal256)(clicks),
			"nonce":  (*math.HexOrDecimal256)(nonce),
		},
	}

	hash, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return nil, fmt.Errorf("hash claim typed data: %w", err)
	}
	return hash, nil
}
