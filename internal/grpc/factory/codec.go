package factory

import (
	"google.golang.org/grpc/encoding"

	"github.com/GriffinCanCode/ProgramFactory/internal/codec"
)

// CodecName is the content subtype frames are sent with
const CodecName = "json"

// Frame is the single request and response message of the service
type Frame struct {
	Payload []byte `json:"payload"`
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return codec.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return codec.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
