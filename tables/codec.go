package tables

import "bankedit/types"

func DecodeUnit(blob string) (*types.Record, error) {
	return Unit.Decode(blob)
}

func EncodeUnit(r *types.Record) (string, error) {
	return Unit.Encode(r)
}

func DecodeAccount(blob string) (*types.Record, error) {
	return Account.Decode(blob)
}

func EncodeAccount(r *types.Record) (string, error) {
	return Account.Encode(r)
}
