package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeekTypeReadsDiscriminatorWithoutFullDecode(t *testing.T) {
	t.Parallel()
	typ, err := PeekType([]byte(`{"type":"join","name":"alice"}`))
	require.NoError(t, err)
	assert.Equal(t, TypeJoin, typ)
}

func TestPeekTypeRejectsMalformedJSON(t *testing.T) {
	t.Parallel()
	_, err := PeekType([]byte(`not json`))
	assert.Error(t, err)
}

func TestDecodeActionDistinguishesOmittedAmountFromZero(t *testing.T) {
	t.Parallel()

	raise, err := DecodeAction([]byte(`{"type":"action","action":{"type":"raise","amount":0}}`))
	require.NoError(t, err)
	require.NotNil(t, raise.Action.Amount)
	assert.Equal(t, 0, *raise.Action.Amount)

	call, err := DecodeAction([]byte(`{"type":"action","action":{"type":"call"}}`))
	require.NoError(t, err)
	assert.Nil(t, call.Action.Amount)
}

func TestMarshalRoundTripsActionResult(t *testing.T) {
	t.Parallel()
	amount := 300
	result := &ActionResult{
		Type:      TypeActionResult,
		ActorSeat: 1,
		Action:    ActionField{Type: ActionRaise, Amount: &amount},
		TimedOut:  false,
		GameState: GameState{Street: "flop"},
	}

	data, err := Marshal(result)
	require.NoError(t, err)

	var decoded ActionResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *result.Action.Amount, *decoded.Action.Amount)
	assert.Equal(t, result.ActorSeat, decoded.ActorSeat)
}

func TestMarshalRejectsUnknownType(t *testing.T) {
	t.Parallel()
	_, err := Marshal(struct{ Foo string }{Foo: "bar"})
	assert.ErrorIs(t, err, ErrUnknownMessageType)
}

func TestActionResultInvalidFieldOmittedWhenFalse(t *testing.T) {
	t.Parallel()
	data, err := Marshal(&ActionResult{Type: TypeActionResult, Invalid: false})
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"invalid"`)
}
