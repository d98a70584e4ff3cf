package abi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// tokenABI is a representative JSON interface document covering functions, overloads, events,
// tuple components and a constructor.
const tokenABI = `[
	{"type": "constructor", "inputs": [{"name": "supply", "type": "uint256"}], "stateMutability": "nonpayable"},
	{"type": "function", "name": "transfer", "stateMutability": "nonpayable",
		"inputs": [{"name": "to", "type": "address"}, {"name": "amount", "type": "uint256"}],
		"outputs": [{"name": "", "type": "bool"}]},
	{"type": "function", "name": "transfer", "stateMutability": "nonpayable",
		"inputs": [{"name": "to", "type": "address"}, {"name": "amount", "type": "uint256"}, {"name": "memo", "type": "string"}],
		"outputs": [{"name": "", "type": "bool"}]},
	{"type": "function", "name": "balanceOf", "stateMutability": "view",
		"inputs": [{"name": "owner", "type": "address"}],
		"outputs": [{"name": "", "type": "uint256"}]},
	{"type": "function", "name": "setConfig", "stateMutability": "nonpayable",
		"inputs": [{"name": "config", "type": "tuple", "components": [
			{"name": "threshold", "type": "uint64"},
			{"name": "admins", "type": "address[]"}
		]}],
		"outputs": []},
	{"type": "event", "name": "Transfer", "anonymous": false,
		"inputs": [
			{"name": "from", "type": "address", "indexed": true},
			{"name": "to", "type": "address", "indexed": true},
			{"name": "amount", "type": "uint256", "indexed": false}
		]},
	{"type": "fallback", "stateMutability": "payable"},
	{"type": "receive", "stateMutability": "payable"}
]`

// TestParseJSONDocument verifies a well-formed document parses into descriptors with cached
// signatures and selectors.
func TestParseJSONDocument(t *testing.T) {
	parsed, err := ParseJSON([]byte(tokenABI))
	assert.NoError(t, err)

	// The constructor is captured separately from the callable methods.
	assert.NotNil(t, parsed.Constructor)
	assert.EqualValues(t, 1, len(parsed.Constructor.Inputs))

	// Methods are keyed by full canonical signature, so overloads coexist.
	assert.EqualValues(t, 4, len(parsed.Methods))
	transfer := parsed.MethodBySig("transfer(address,uint256)")
	assert.NotNil(t, transfer)
	assert.False(t, transfer.Constant())
	assert.EqualValues(t, 2, len(parsed.MethodsByName("transfer")))

	balanceOf := parsed.MethodBySig("balanceOf(address)")
	assert.NotNil(t, balanceOf)
	assert.True(t, balanceOf.Constant())

	// Tuple components expand into the canonical parenthesized form.
	setConfig := parsed.MethodBySig("setConfig((uint64,address[]))")
	assert.NotNil(t, setConfig)
	assert.EqualValues(t, "threshold", setConfig.Inputs[0].Type.Fields[0].Name)

	// Selector lookup resolves the method from a call data prefix.
	assert.Equal(t, transfer, parsed.MethodByID(transfer.ID))

	// Events are resolvable by signature, name, and topic-zero selector.
	event := parsed.EventBySig("Transfer(address,address,uint256)")
	assert.NotNil(t, event)
	assert.EqualValues(t, 1, len(parsed.EventsByName("Transfer")))
	assert.Equal(t, event, parsed.EventByID(event.ID))
	assert.EqualValues(t, 2, len(event.Indexed()))
}

// TestParseJSONErrors verifies malformed documents fail at construction with a ParseError.
func TestParseJSONErrors(t *testing.T) {
	docs := []string{
		`{`,
		`{"type": "function"}`, // not a list
		`[{"type": "widget", "name": "x"}]`,
		`[{"type": "function", "name": "f", "inputs": [{"name": "x", "type": "uint7"}]}]`,
		`[{"type": "event", "name": "E", "inputs": [{"name": "x", "type": "nonsense"}]}]`,
	}
	for _, doc := range docs {
		_, err := ParseJSON([]byte(doc))
		assert.Error(t, err, "expected parse failure for document %s", doc)
		var parseErr *ParseError
		assert.ErrorAs(t, err, &parseErr)
	}
}

// TestParseJSONAnonymousEvent verifies anonymous events parse but are excluded from topic-zero
// lookup.
func TestParseJSONAnonymousEvent(t *testing.T) {
	doc := `[{"type": "event", "name": "Ping", "anonymous": true,
		"inputs": [{"name": "n", "type": "uint256", "indexed": false}]}]`
	parsed, err := ParseJSON([]byte(doc))
	assert.NoError(t, err)

	event := parsed.EventBySig("Ping(uint256)")
	assert.NotNil(t, event)
	assert.True(t, event.Anonymous)
	assert.Nil(t, parsed.EventByID(event.ID))
}
