// Package codec is the serialization layer of the factory messages.
//
// Tagged unions use external tagging: a variant with a payload encodes as a
// single-key object {"Variant": payload}; a variant without one encodes as
// the bare string "Variant". Addresses and code ids are 0x-prefixed hex.
//
//	{"CreateProgram":{"init_config":{"field":"x"}}}
//	{"UpdateGasProgram":200}
//	{"Ok":{"GasUpdatedSuccessfully":{"updated_by":"0x..","new_gas_amount":200}}}
//	{"Err":"Unauthorized"}
//	{"IdToAddress":[[1,"0x.."]]}
//
// Every decode failure wraps ErrMalformed.
package codec
