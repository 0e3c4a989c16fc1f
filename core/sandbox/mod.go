// Package sandbox implements a local invocation service that runs signed
// transactions against instances of native smart contracts.
//
// The service persists its data in a key/value database split in three
// buckets: the registered instances, the nonce of each identity and the
// contract state. A transaction either deploys a new instance of a contract
// registered in the execution service, or invokes an existing instance. The
// identifier of an instance is the unique identifier of the transaction that
// deployed it.
//
// Transactions are processed one at a time. The service first verifies the
// signature and the nonce of the transaction, then it executes it inside a
// single database transaction. An invocation runs on a staging snapshot of
// the state so that the writes of an execution that fails, or that the
// contract rejects, are simply dropped. The nonce of the identity is consumed
// when the transaction has been executed, accepted or not, but a transaction
// refused beforehand leaves it untouched so that it can be submitted again.
//
// Documentation Last Review: 25.08.2026
//
package sandbox

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.dedis.ch/custody"
	"go.dedis.ch/custody/core/access"
	"go.dedis.ch/custody/core/execution"
	"go.dedis.ch/custody/core/execution/native"
	"go.dedis.ch/custody/core/store/kv"
	"go.dedis.ch/custody/core/store/mem"
	"go.dedis.ch/custody/core/store/prefixed"
	"go.dedis.ch/custody/core/txn"
	"go.dedis.ch/custody/crypto"
	"go.dedis.ch/custody/wire"
	"golang.org/x/xerrors"
)

const (
	// DeployArg is the argument key in the transaction to deploy a new
	// instance of the contract with the given name.
	DeployArg = "go.dedis.ch/custody.DeployArg"

	// InstanceArg is the argument key in the transaction to designate the
	// instance to invoke by its hexadecimal identifier.
	InstanceArg = "go.dedis.ch/custody.InstanceArg"
)

const (
	statusAccepted = "accepted"
	statusRejected = "rejected"
	statusRefused  = "refused"
)

var (
	instanceBucket = []byte("sandbox-instances")
	nonceBucket    = []byte("sandbox-nonces")
	stateBucket    = []byte("sandbox-state")
)

// defines prometheus metrics
var promTxs = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "custody_sandbox_transactions_total",
	Help: "total number of transactions processed",
}, []string{"status"})

func init() {
	custody.PromCollectors = append(custody.PromCollectors, promTxs)
}

// signedTx is implemented by transactions that carry a signature over their
// unique identifier.
type signedTx interface {
	GetSignature() crypto.Signature
}

// Service is an invocation service that persists the contract instances and
// their state in a database. It keeps track of the nonce of every identity
// so that a transaction cannot be replayed.
//
// - implements signed.Client
type Service struct {
	sync.Mutex

	db   kv.DB
	exec *native.Service
}

// NewService creates a new invocation service that will run the contracts
// registered in the execution service.
func NewService(db kv.DB, exec *native.Service) *Service {
	return &Service{
		db:   db,
		exec: exec,
	}
}

// Process applies the transaction and returns the result of its execution.
// It returns an error when the transaction is refused before reaching a
// contract, in which case the nonce of the identity is left untouched.
func (srvc *Service) Process(tx txn.Transaction) (execution.Result, error) {
	srvc.Lock()
	defer srvc.Unlock()

	err := verifyTx(tx)
	if err != nil {
		promTxs.WithLabelValues(statusRefused).Inc()

		return execution.Result{}, xerrors.Errorf("invalid transaction: %v", err)
	}

	var res execution.Result

	err = srvc.db.Update(func(dbtx kv.WritableTx) error {
		key, err := checkNonce(dbtx, tx)
		if err != nil {
			return xerrors.Errorf("nonce: %v", err)
		}

		switch {
		case len(tx.GetArg(DeployArg)) > 0:
			res, err = srvc.deploy(dbtx, tx)
		case len(tx.GetArg(InstanceArg)) > 0:
			res, err = srvc.invoke(dbtx, tx)
		default:
			err = xerrors.Errorf("transaction has no '%s' or '%s' argument",
				DeployArg, InstanceArg)
		}

		if err != nil {
			return err
		}

		return consumeNonce(dbtx, tx, key)
	})
	if err != nil {
		promTxs.WithLabelValues(statusRefused).Inc()

		return execution.Result{}, xerrors.Errorf("failed to process: %v", err)
	}

	if res.Accepted {
		promTxs.WithLabelValues(statusAccepted).Inc()
	} else {
		promTxs.WithLabelValues(statusRejected).Inc()
	}

	return res, nil
}

// GetNonce implements signed.Client. It returns the nonce expected for the
// next transaction of the identity.
func (srvc *Service) GetNonce(identity access.Identity) (uint64, error) {
	key, err := identityKey(identity)
	if err != nil {
		return 0, xerrors.Errorf("identity: %v", err)
	}

	var nonce uint64

	err = srvc.db.View(func(dbtx kv.ReadableTx) error {
		bucket := dbtx.GetBucket(nonceBucket)
		if bucket == nil {
			return nil
		}

		data := bucket.Get(key)
		if data != nil {
			nonce = binary.LittleEndian.Uint64(data)
		}

		return nil
	})
	if err != nil {
		return 0, xerrors.Errorf("couldn't read nonce: %v", err)
	}

	return nonce, nil
}

// deploy records a new instance of the contract under the identifier of the
// transaction and returns it as the output of the deployment.
func (srvc *Service) deploy(dbtx kv.WritableTx, tx txn.Transaction) (execution.Result, error) {
	name := string(tx.GetArg(DeployArg))

	if srvc.exec.Get(name) == nil {
		return execution.Result{}, xerrors.Errorf("unknown contract '%s'", name)
	}

	bucket, err := dbtx.GetBucketOrCreate(instanceBucket)
	if err != nil {
		return execution.Result{}, xerrors.Errorf("bucket: %v", err)
	}

	id := tx.GetID()

	if bucket.Get(id) != nil {
		return execution.Result{}, xerrors.Errorf("instance '%x' already exists", id)
	}

	err = bucket.Set(id, []byte(name))
	if err != nil {
		return execution.Result{}, xerrors.Errorf("couldn't store instance: %v", err)
	}

	value, err := wire.Encode(wire.Bytes(id))
	if err != nil {
		return execution.Result{}, xerrors.Errorf("couldn't encode id: %v", err)
	}

	custody.Logger.Info().Str("contract", name).Msgf("instance %x deployed", id)

	return execution.Result{Accepted: true, Value: value}, nil
}

// invoke runs the instance contract on a staging snapshot of the state and
// flushes the writes only when the execution is accepted.
func (srvc *Service) invoke(dbtx kv.WritableTx, tx txn.Transaction) (execution.Result, error) {
	arg := string(tx.GetArg(InstanceArg))

	id, err := hex.DecodeString(arg)
	if err != nil {
		return execution.Result{}, xerrors.Errorf("malformed instance id '%s': %v", arg, err)
	}

	var name []byte

	bucket := dbtx.GetBucket(instanceBucket)
	if bucket != nil {
		name = bucket.Get(id)
	}

	if name == nil {
		return execution.Result{}, xerrors.Errorf("instance '%x' not found", id)
	}

	if !bytes.Equal(name, tx.GetArg(native.ContractArg)) {
		return execution.Result{},
			xerrors.Errorf("instance '%x' is running '%s', not '%s'",
				id, name, tx.GetArg(native.ContractArg))
	}

	state, err := dbtx.GetBucketOrCreate(stateBucket)
	if err != nil {
		return execution.Result{}, xerrors.Errorf("bucket: %v", err)
	}

	staging := mem.NewStaging(bucketStore{bucket: state})

	// The state of each instance lives in its own namespace so that two
	// instances of the same contract do not share their keys.
	snap := prefixed.NewSnapshot(hex.EncodeToString(id), staging)

	res, err := srvc.exec.Execute(snap, execution.Step{Current: tx})
	if err != nil {
		return execution.Result{}, xerrors.Errorf("failed to execute: %v", err)
	}

	if res.Accepted {
		err = staging.WriteTo(bucketStore{bucket: state})
		if err != nil {
			return execution.Result{}, xerrors.Errorf("couldn't write state: %v", err)
		}
	}

	return res, nil
}

// verifyTx makes sure the transaction is signed by its identity.
func verifyTx(tx txn.Transaction) error {
	signed, ok := tx.(signedTx)
	if !ok || signed.GetSignature() == nil {
		return xerrors.New("transaction is not signed")
	}

	pubkey, ok := tx.GetIdentity().(crypto.PublicKey)
	if !ok {
		return xerrors.Errorf("identity of type '%T' is not a public key", tx.GetIdentity())
	}

	err := pubkey.Verify(tx.GetID(), signed.GetSignature())
	if err != nil {
		return xerrors.Errorf("signature: %v", err)
	}

	return nil
}

// checkNonce makes sure the nonce of the transaction matches the nonce
// expected for the identity. It returns the key of the identity in the nonce
// bucket.
func checkNonce(dbtx kv.ReadableTx, tx txn.Transaction) ([]byte, error) {
	key, err := identityKey(tx.GetIdentity())
	if err != nil {
		return nil, xerrors.Errorf("identity: %v", err)
	}

	expected := uint64(0)

	bucket := dbtx.GetBucket(nonceBucket)
	if bucket != nil {
		data := bucket.Get(key)
		if data != nil {
			expected = binary.LittleEndian.Uint64(data)
		}
	}

	if tx.GetNonce() != expected {
		return nil, xerrors.Errorf("expected nonce %d, got %d", expected, tx.GetNonce())
	}

	return key, nil
}

// consumeNonce moves the nonce of the identity forward.
func consumeNonce(dbtx kv.WritableTx, tx txn.Transaction, key []byte) error {
	bucket, err := dbtx.GetBucketOrCreate(nonceBucket)
	if err != nil {
		return xerrors.Errorf("bucket: %v", err)
	}

	buffer := make([]byte, 8)
	binary.LittleEndian.PutUint64(buffer, tx.GetNonce()+1)

	err = bucket.Set(key, buffer)
	if err != nil {
		return xerrors.Errorf("couldn't write nonce: %v", err)
	}

	return nil
}

func identityKey(identity access.Identity) ([]byte, error) {
	pubkey, ok := identity.(crypto.PublicKey)
	if !ok {
		return nil, xerrors.Errorf("identity of type '%T' is not a public key", identity)
	}

	key, err := pubkey.MarshalBinary()
	if err != nil {
		return nil, xerrors.Errorf("couldn't marshal public key: %v", err)
	}

	return key, nil
}

// bucketStore exposes a database bucket through the store abstractions so
// that an execution can be staged on top of it.
//
// - implements store.Readable
// - implements store.Writable
type bucketStore struct {
	bucket kv.Bucket
}

// Get implements store.Readable. It returns the value of the key in the
// bucket, or nil if it is missing.
func (s bucketStore) Get(key []byte) ([]byte, error) {
	return s.bucket.Get(key), nil
}

// Set implements store.Writable. It stores the value in the bucket.
func (s bucketStore) Set(key, value []byte) error {
	return s.bucket.Set(key, value)
}

// Delete implements store.Writable. It removes the key from the bucket.
func (s bucketStore) Delete(key []byte) error {
	return s.bucket.Delete(key)
}
