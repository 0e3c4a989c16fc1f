// Package holding implements the native contract of the custody ledger. The
// contract maps keys to owner identities and lets only the current owner
// replace the value stored under a key.
//
// A key with no stored value is open: the first write succeeds for any
// caller and installs the written identity as the owner. Afterwards a write
// is permitted only when the caller identity equals the stored one, so
// storing another identity transfers the key. The caller is either the
// transaction signer, or the identity asserted by a signature proof given
// alongside the update.
//
// Documentation Last Review: 25.08.2026
package holding

import (
	"go.dedis.ch/custody"
	"go.dedis.ch/custody/contracts/holding/types"
	"go.dedis.ch/custody/core/execution"
	"go.dedis.ch/custody/core/execution/native"
	"go.dedis.ch/custody/core/store"
	"go.dedis.ch/custody/core/store/prefixed"
	"go.dedis.ch/custody/core/txn"
	"go.dedis.ch/custody/crypto"
	"go.dedis.ch/custody/serde"
	"golang.org/x/xerrors"
)

// commands defines the commands of the holding contract. This interface
// helps in testing the contract.
type commands interface {
	set(snap store.Snapshot, step execution.Step) error
	get(snap store.Snapshot, step execution.Step) ([]byte, error)
	signedSet(snap store.Snapshot, step execution.Step) error
}

const (
	// ContractName is the name of the contract.
	ContractName = "go.dedis.ch/custody.Holding"

	// ContractUID is the unique 4-byte identifier of the contract, used to
	// namespace its keys in the storage.
	ContractUID = "HOLD"

	// KeyArg is the argument's name in the transaction that contains the
	// key to read or update.
	KeyArg = "holding:key"

	// ValueArg is the argument's name in the transaction that contains the
	// serialized identity to store under the key.
	ValueArg = "holding:value"

	// SignatureArg is the argument's name in the transaction that contains
	// the serialized signature of a SIGNEDSET command.
	SignatureArg = "holding:signature"

	// CmdArg is the argument's name to indicate the kind of command we want
	// to run on the contract. Should be one of the Command type.
	CmdArg = "holding:command"
)

// Command defines a type of command for the holding contract.
type Command string

const (
	// CmdSet defines the command to store a value under a key, as the
	// transaction signer.
	CmdSet Command = "SET"

	// CmdGet defines the command to read the value stored under a key.
	CmdGet Command = "GET"

	// CmdSignedSet defines the command to store a value under a key with an
	// explicit signature directing how the caller identity is derived.
	CmdSignedSet Command = "SIGNEDSET"
)

var (
	// ErrNotAuthorized is returned when the caller identity does not hold
	// the key it tries to change.
	ErrNotAuthorized = xerrors.New("you are not allowed to change this value")

	// ErrKeyNotFound is returned when reading a key that has no value
	// stored.
	ErrKeyNotFound = xerrors.New("key does not exist")

	// ErrInvalidSignature is returned when the proof of a signed update
	// does not verify against the claim it asserts.
	ErrInvalidSignature = xerrors.New("signature does not match the claim")
)

// RegisterContract registers the holding contract to the given execution
// service.
func RegisterContract(exec *native.Service, c Contract) {
	exec.Set(ContractName, c)
}

// Contract is the native contract enforcing the ownership of the stored
// values.
//
// - implements native.Contract
type Contract struct {
	// context is used to serialize and deserialize the stored identities.
	context serde.Context

	// identityFac decodes the identities of the transaction arguments and
	// of the storage.
	identityFac types.IdentityFactory

	// signatureFac decodes the signature of a SIGNEDSET command.
	signatureFac types.SignatureFactory

	// hashFactory computes the claim digests of signed updates.
	hashFactory crypto.HashFactory

	// cmd provides the commands executions
	cmd commands
}

// NewContract creates a new holding contract. The stored identities are
// encoded with the given context.
func NewContract(ctx serde.Context) Contract {
	contract := Contract{
		context:      ctx,
		identityFac:  types.IdentityFactory{},
		signatureFac: types.SignatureFactory{},
		hashFactory:  crypto.NewSha256Factory(),
	}

	contract.cmd = holdingCommand{Contract: &contract}

	return contract
}

// Execute implements native.Contract. It runs the appropriate command and
// returns the value read by a GET.
func (c Contract) Execute(snap store.Snapshot, step execution.Step) ([]byte, error) {
	cmd := step.Current.GetArg(CmdArg)
	if len(cmd) == 0 {
		return nil, xerrors.Errorf("'%s' not found in tx arg", CmdArg)
	}

	snap = prefixed.NewSnapshot(ContractUID, snap)

	switch Command(cmd) {
	case CmdSet:
		err := c.cmd.set(snap, step)
		if err != nil {
			return nil, xerrors.Errorf("failed to SET: %w", err)
		}
	case CmdGet:
		value, err := c.cmd.get(snap, step)
		if err != nil {
			return nil, xerrors.Errorf("failed to GET: %w", err)
		}

		return value, nil
	case CmdSignedSet:
		err := c.cmd.signedSet(snap, step)
		if err != nil {
			return nil, xerrors.Errorf("failed to SIGNEDSET: %w", err)
		}
	default:
		return nil, xerrors.Errorf("unknown command: %s", cmd)
	}

	return nil, nil
}

// UID implements native.Contract.
func (c Contract) UID() string {
	return ContractUID
}

// holdingCommand implements the commands of the holding contract
//
// - implements commands
type holdingCommand struct {
	*Contract
}

// set implements commands. It performs the SET command: the caller is the
// transaction signer.
func (h holdingCommand) set(snap store.Snapshot, step execution.Step) error {
	key := step.Current.GetArg(KeyArg)
	if len(key) == 0 {
		return xerrors.Errorf("'%s' not found in tx arg", KeyArg)
	}

	value, err := h.decodeValue(step)
	if err != nil {
		return err
	}

	caller, err := callerOf(step.Current)
	if err != nil {
		return err
	}

	err = h.authorize(snap, key, caller)
	if err != nil {
		return err
	}

	return h.store(snap, key, value)
}

// get implements commands. It performs the GET command and returns the
// serialized identity stored under the key.
func (h holdingCommand) get(snap store.Snapshot, step execution.Step) ([]byte, error) {
	key := step.Current.GetArg(KeyArg)
	if len(key) == 0 {
		return nil, xerrors.Errorf("'%s' not found in tx arg", KeyArg)
	}

	data, err := snap.Get(key)
	if err != nil {
		return nil, xerrors.Errorf("failed to get key '%x': %v", key, err)
	}

	if len(data) == 0 {
		return nil, xerrors.Errorf("key '%x': %w", key, ErrKeyNotFound)
	}

	return data, nil
}

// signedSet implements commands. It performs the SIGNEDSET command. The
// signature of the arguments directs how the caller identity is derived: the
// invoker variant uses the transaction signer like SET, while a proof
// asserts the identity of its own public key. The authorization of the
// identity is checked before the proof is verified.
func (h holdingCommand) signedSet(snap store.Snapshot, step execution.Step) error {
	key := step.Current.GetArg(KeyArg)
	if len(key) == 0 {
		return xerrors.Errorf("'%s' not found in tx arg", KeyArg)
	}

	value, err := h.decodeValue(step)
	if err != nil {
		return err
	}

	data := step.Current.GetArg(SignatureArg)
	if len(data) == 0 {
		return xerrors.Errorf("'%s' not found in tx arg", SignatureArg)
	}

	sig, err := h.signatureFac.SignatureOf(h.context, data)
	if err != nil {
		return xerrors.Errorf("couldn't decode signature: %v", err)
	}

	switch signature := sig.(type) {
	case types.Invoker:
		caller, err := callerOf(step.Current)
		if err != nil {
			return err
		}

		err = h.authorize(snap, key, caller)
		if err != nil {
			return err
		}

	case types.Proof:
		caller, err := signature.GetIdentity()
		if err != nil {
			return xerrors.Errorf("couldn't derive caller: %v", err)
		}

		err = h.authorize(snap, key, caller)
		if err != nil {
			return err
		}

		claim, err := types.NewClaim(key, value, h.hashFactory)
		if err != nil {
			return xerrors.Errorf("couldn't make claim: %v", err)
		}

		err = signature.Verify(claim)
		if err != nil {
			return xerrors.Errorf("couldn't verify the claim: %w", ErrInvalidSignature)
		}

	default:
		return xerrors.Errorf("unsupported signature of type '%T'", sig)
	}

	return h.store(snap, key, value)
}

// decodeValue returns the identity of the value argument.
func (h holdingCommand) decodeValue(step execution.Step) (types.Identity, error) {
	data := step.Current.GetArg(ValueArg)
	if len(data) == 0 {
		return nil, xerrors.Errorf("'%s' not found in tx arg", ValueArg)
	}

	value, err := h.identityFac.IdentityOf(h.context, data)
	if err != nil {
		return nil, xerrors.Errorf("couldn't decode value: %v", err)
	}

	return value, nil
}

// authorize returns nil when the caller is allowed to change the value
// stored under the key, so when the key holds no value yet, or when the
// stored identity equals the caller.
func (h holdingCommand) authorize(snap store.Snapshot, key []byte, caller types.Identity) error {
	owner, found, err := h.ownerOf(snap, key)
	if err != nil {
		return err
	}

	if found && !owner.Equal(caller) {
		return xerrors.Errorf("key is held by %v: %w", owner, ErrNotAuthorized)
	}

	return nil
}

// store writes the identity under the key.
func (h holdingCommand) store(snap store.Snapshot, key []byte, value types.Identity) error {
	data, err := value.Serialize(h.context)
	if err != nil {
		return xerrors.Errorf("couldn't encode value: %v", err)
	}

	err = snap.Set(key, data)
	if err != nil {
		return xerrors.Errorf("failed to set value: %v", err)
	}

	custody.Logger.Info().
		Str("contract", ContractName).
		Msgf("key %x is now held by %v", key, value)

	return nil
}

// ownerOf returns the identity stored under the key and whether the key
// holds a value at all.
func (h holdingCommand) ownerOf(snap store.Snapshot, key []byte) (types.Identity, bool, error) {
	data, err := snap.Get(key)
	if err != nil {
		return nil, false, xerrors.Errorf("failed to get key '%x': %v", key, err)
	}

	if len(data) == 0 {
		return nil, false, nil
	}

	owner, err := h.identityFac.IdentityOf(h.context, data)
	if err != nil {
		return nil, false, xerrors.Errorf("couldn't decode owner: %v", err)
	}

	return owner, true, nil
}

// callerOf returns the account identity of the transaction signer.
func callerOf(tx txn.Transaction) (types.Account, error) {
	pubkey, ok := tx.GetIdentity().(crypto.PublicKey)
	if !ok {
		return types.Account{}, xerrors.Errorf(
			"identity of type '%T' is not a public key", tx.GetIdentity())
	}

	caller, err := types.NewAccountFromPublicKey(pubkey)
	if err != nil {
		return types.Account{}, xerrors.Errorf("couldn't make account: %v", err)
	}

	return caller, nil
}
