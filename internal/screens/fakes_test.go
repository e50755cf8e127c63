package screens

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"collablearn/internal/chain"
	"collablearn/internal/collab"
	"collablearn/internal/ipfs"
	"collablearn/internal/wallet"
)

type fakeReader struct {
	mu        sync.Mutex
	projects  map[uint64]chain.Project
	getErr    error
	listErr   error
	listCalls int
}

func (f *fakeReader) GetProject(ctx context.Context, id uint64) (chain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return chain.Project{}, f.getErr
	}
	p, ok := f.projects[id]
	if !ok {
		return chain.Project{}, chain.ErrProjectNotFound
	}
	return p, nil
}

func (f *fakeReader) ListProjectsByOwner(ctx context.Context, owner common.Address) ([]chain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []chain.Project
	for _, p := range f.projects {
		if p.Owner == owner {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeReader) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func (f *fakeReader) setListErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listErr = err
}

func (f *fakeReader) put(p chain.Project) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.projects == nil {
		f.projects = map[uint64]chain.Project{}
	}
	f.projects[p.ID] = p
}

type fakeWriter struct {
	createID    uint64
	createErr   error
	updateErr   error
	lastMeta    string
	updateCalls int
}

func (f *fakeWriter) CreateProject(opts *bind.TransactOpts, title, metadataCID, description string, requiredStake *big.Int, owner common.Address) (uint64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.lastMeta = metadataCID
	return f.createID, nil
}

func (f *fakeWriter) UpdateProjectVersion(opts *bind.TransactOpts, id uint64, newMetadataCID string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updateCalls++
	f.lastMeta = newMetadataCID
	return nil
}

// fakeStorage hands out deterministic CIDs keyed by upload order and serves
// back whatever was stored.
type fakeStorage struct {
	mu        sync.Mutex
	uploads   int
	files     map[string][]byte
	meta      map[string]ipfs.ProjectMetadata
	uploadErr error
	fetchErr  error
	metaErr   error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		files: map[string][]byte{},
		meta:  map[string]ipfs.ProjectMetadata{},
	}
}

// nextCID mints a real content identifier so metadata validation passes.
func (f *fakeStorage) nextCID(data []byte) string {
	f.uploads++
	salted := append([]byte(fmt.Sprintf("%d|", f.uploads)), data...)
	id, err := ipfs.SumRaw(salted)
	if err != nil {
		panic(err)
	}
	return id.String()
}

func (f *fakeStorage) UploadFile(ctx context.Context, name string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	cid := f.nextCID(data)
	f.files[cid] = append([]byte(nil), data...)
	return cid, nil
}

func (f *fakeStorage) UploadJSON(ctx context.Context, v any) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	cid := f.nextCID(data)
	var meta ipfs.ProjectMetadata
	if err := json.Unmarshal(data, &meta); err == nil {
		f.meta[cid] = meta
	}
	f.files[cid] = data
	return cid, nil
}

func (f *fakeStorage) ResolveURL(cid string) (string, error) {
	if cid == "" {
		return "", ipfs.ErrResolutionFailed
	}
	return "https://gateway.test/ipfs/" + cid, nil
}

func (f *fakeStorage) FetchBytes(ctx context.Context, cid string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	data, ok := f.files[cid]
	if !ok {
		return nil, ipfs.ErrFetchFailed
	}
	return data, nil
}

func (f *fakeStorage) FetchMetadata(ctx context.Context, cid string) (ipfs.ProjectMetadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.metaErr != nil {
		return ipfs.ProjectMetadata{}, f.metaErr
	}
	meta, ok := f.meta[cid]
	if !ok {
		return ipfs.ProjectMetadata{}, ipfs.ErrFetchFailed
	}
	return meta, nil
}

type fakeWatcher struct {
	subscribeErr error

	mu   sync.Mutex
	sink chan<- chain.ProjectCreated
	errc chan error
}

func (f *fakeWatcher) WatchProjectCreated(ctx context.Context, sink chan<- chain.ProjectCreated) (<-chan error, error) {
	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sink = sink
	f.errc = make(chan error, 1)
	return f.errc, nil
}

// emit waits for the subscription to land before delivering the event.
func (f *fakeWatcher) emit(ev chain.ProjectCreated) {
	for {
		f.mu.Lock()
		sink := f.sink
		f.mu.Unlock()
		if sink != nil {
			sink <- ev
			return
		}
		time.Sleep(time.Millisecond)
	}
}

type fakeConverter struct {
	html string
	err  error
}

func (f *fakeConverter) Convert(ctx context.Context, fileName string, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.html, nil
}

type fakeAuthorizer struct {
	result collab.SessionResult
	err    error
}

func (f *fakeAuthorizer) Authorize(ctx context.Context, walletAddress string) (collab.SessionResult, error) {
	if f.err != nil {
		return collab.SessionResult{}, f.err
	}
	return f.result, nil
}

type stubProvider struct {
	address  common.Address
	accounts chan []common.Address
	chains   chan *big.Int
}

func newStubProvider(address common.Address) *stubProvider {
	return &stubProvider{
		address:  address,
		accounts: make(chan []common.Address),
		chains:   make(chan *big.Int),
	}
}

func (p *stubProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	return []common.Address{p.address}, nil
}

func (p *stubProvider) ChainID(ctx context.Context) (*big.Int, error) {
	return big.NewInt(31337), nil
}

func (p *stubProvider) Signer() bind.SignerFn {
	return func(addr common.Address, tx *types.Transaction) (*types.Transaction, error) {
		return tx, nil
	}
}

func (p *stubProvider) AccountsChanged() <-chan []common.Address { return p.accounts }
func (p *stubProvider) ChainChanged() <-chan *big.Int           { return p.chains }

func connectedSession(t *testing.T, address common.Address) *wallet.Session {
	t.Helper()
	session := wallet.NewSession(newStubProvider(address))
	if _, err := session.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(session.Close)
	return session
}

func eventually(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func testOwner() common.Address {
	sum := sha256.Sum256([]byte("owner"))
	return common.BytesToAddress(sum[:20])
}
