package handshake

import (
	"io"
	"time"

	"github.com/pion/logging"
)

// SessionCache is the resumption store the resolver consults for the
// stateful ("cache") resumption path (spec.md 4.3). Cache eviction,
// key derivation, and storage backend are entirely up to the
// implementation; this driver only ever looks a session id up or
// deletes it.
type SessionCache interface {
	Get(sessionID []byte) (found bool)
	Delete(sessionID []byte)
}

// TicketStore is the resumption store for the stateless ("ticket")
// resumption path. Ticket encryption/decryption is an external
// collaborator; the driver only needs to know whether a presented
// ticket decrypted successfully.
type TicketStore interface {
	Decrypt(ticket []byte) (found bool)
}

// CipherSuiteRegistry resolves cipher suite IDs to the narrow
// CipherSuite view this driver needs (connstate.go). Suite ranking,
// registration, and the primitives behind each suite are external
// collaborators.
type CipherSuiteRegistry interface {
	// Offered lists the suite IDs a client advertises in ClientHello,
	// in preference order.
	Offered() []uint16
	// Select picks a mutually supported suite from a ClientHello's
	// offered list, server-side.
	Select(offered []uint16) (id uint16, suite CipherSuite, ok bool)
	// ByID looks up the suite the server chose, client-side.
	ByID(id uint16) (CipherSuite, bool)
}

// ClientExtensionParser decodes the extension block of an incoming
// ClientHello into the handful of facts the Resolver needs. Extension
// parsing in general is an external collaborator; this narrow
// interface exists only so the reference ClientHello handler can
// drive ResolveHandshakeType without this package understanding TLS
// extensions itself.
type ClientExtensionParser interface {
	ParseClientExtensions(raw []byte) (sigSchemes []uint16, presentedTicket []byte, wantsOCSPStatus bool)
}

// ServerExtensionParser is ClientExtensionParser's counterpart for a
// ServerHello's extension block, from the client's point of view.
// ackedOCSPStatus reports whether the server's extensions acknowledge
// the client's earlier status_request, feeding the OCSP_STATUS bit
// (spec.md 4.3 step 8) the same way a real status_request ack would.
type ServerExtensionParser interface {
	ParseServerExtensions(raw []byte) (issuingTicket bool, ackedOCSPStatus bool)
}

// CredentialProvider supplies the local certificate chain a
// Certificate handler sends. Selecting which chain to present for a
// given ClientHello (e.g. SNI-based) is the provider's concern.
type CredentialProvider interface {
	Chain() [][]byte
}

// Signer produces the opaque signature CertificateVerify carries, and
// Verifier checks a peer's. Both operate over a transcript hash this
// driver has already computed; the signature math itself belongs to
// the credential's private key implementation.
type Signer interface {
	Sign(sigHashAlgorithm uint16, transcriptHash []byte) (signature []byte, err error)
}

type Verifier interface {
	Verify(sigHashAlgorithm uint16, transcriptHash, signature []byte) error
}

// FinishedPRF computes and checks the verify_data field of Finished
// messages (RFC 5246 section 7.4.9). The PRF itself, and the master
// secret it is keyed with, are external collaborators.
type FinishedPRF interface {
	Compute(sender Role, transcriptHash []byte) (verifyData []byte)
	Verify(sender Role, transcriptHash, verifyData []byte) error
}

// SessionIDGenerator mints a fresh server-side session ID for a full
// handshake (spec.md 4.3 step 5).
type SessionIDGenerator func() []byte

// Config carries the ambient, connection-independent policy every
// Conn is built against.
//
// Grounded on the teacher's dtlsConfig/Config (options.go, adapted):
// kept the functional-options construction and the logging/keylog
// fields verbatim in spirit, dropped every DTLS transport-specific
// field (MTU, flight interval, retransmit backoff, replay window,
// connection ID generator) since this driver's I/O model has no
// retransmission (spec.md 5), and dropped cipher/certificate/PSK
// fields since suite and credential selection are external
// collaborators (spec.md 1).
type Config struct {
	ClientAuth    ClientAuthPolicy
	SessionCache  SessionCache
	TicketStore   TicketStore
	LoggerFactory logging.LoggerFactory
	KeyLogWriter  io.Writer

	CipherSuites       CipherSuiteRegistry
	Credentials        CredentialProvider
	ClientCredentials  CredentialProvider
	Signer             Signer
	Verifier           Verifier
	PRF                FinishedPRF
	NewSessionID       SessionIDGenerator
	SignatureSchemes   []uint16
	OCSPResponder      func(chain [][]byte) (response []byte, ok bool)
	ClientExtensions   ClientExtensionParser
	ServerExtensions   ServerExtensionParser

	// HandshakeTimeout bounds how long Negotiate may block on a single
	// Direction before giving up; zero means no timeout. Per spec.md 5,
	// this package never enforces it directly - it is a value the
	// caller's RecordIO implementation reads out of Config and applies
	// to whatever transport it wraps.
	HandshakeTimeout time.Duration

	// ManageCorking opts into spec.md 4.7's corking policy: cork the
	// transport on becoming writer, uncork on becoming reader. Off by
	// default, since a RecordIO built over something other than a
	// corkable stream socket has no use for it.
	ManageCorking bool
}

// Option configures a Config.
type Option func(*Config)

// NewConfig builds a Config from options, matching the teacher's
// applyDefaults + functional option application.
func NewConfig(opts ...Option) *Config {
	c := &Config{
		ClientAuth:    ClientAuthNone,
		LoggerFactory: logging.NewDefaultLoggerFactory(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithClientAuth sets the server's client-certificate policy.
func WithClientAuth(policy ClientAuthPolicy) Option {
	return func(c *Config) { c.ClientAuth = policy }
}

// WithSessionCache enables stateful session resumption.
func WithSessionCache(cache SessionCache) Option {
	return func(c *Config) { c.SessionCache = cache }
}

// WithTicketStore enables stateless session-ticket resumption.
func WithTicketStore(store TicketStore) Option {
	return func(c *Config) { c.TicketStore = store }
}

// WithLoggerFactory sets the pion/logging factory used for the
// driver's per-scope tracing.
func WithLoggerFactory(factory logging.LoggerFactory) Option {
	return func(c *Config) { c.LoggerFactory = factory }
}

// WithKeyLogWriter sets an NSS-format key log sink, wired by the
// record-layer collaborator, not read by this package.
func WithKeyLogWriter(w io.Writer) Option {
	return func(c *Config) { c.KeyLogWriter = w }
}

// WithHandshakeTimeout sets Config.HandshakeTimeout. This package only
// stores the value; Negotiate does not enforce it.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(c *Config) { c.HandshakeTimeout = d }
}

// WithManagedCorking opts into the corking policy of spec.md 4.7. Only
// meaningful when the RecordIO passed to NewConn also implements the
// corker interface (cork.go); otherwise it is a no-op.
func WithManagedCorking() Option {
	return func(c *Config) { c.ManageCorking = true }
}

// WithCipherSuites sets the cipher suite registry used to select
// (server) or resolve (client) the negotiated suite.
func WithCipherSuites(reg CipherSuiteRegistry) Option {
	return func(c *Config) { c.CipherSuites = reg }
}

// WithCredentials sets the local certificate chain a Certificate
// handler presents. WithClientCredentials sets the chain a client
// presents under client authentication.
func WithCredentials(p CredentialProvider) Option {
	return func(c *Config) { c.Credentials = p }
}

func WithClientCredentials(p CredentialProvider) Option {
	return func(c *Config) { c.ClientCredentials = p }
}

// WithSigner and WithVerifier wire CertificateVerify's signature
// production and verification.
func WithSigner(s Signer) Option {
	return func(c *Config) { c.Signer = s }
}

func WithVerifier(v Verifier) Option {
	return func(c *Config) { c.Verifier = v }
}

// WithFinishedPRF wires Finished's verify_data computation and check.
func WithFinishedPRF(prf FinishedPRF) Option {
	return func(c *Config) { c.PRF = prf }
}

// WithSessionIDGenerator sets the generator used to mint a fresh
// server-side session ID on a full handshake.
func WithSessionIDGenerator(gen SessionIDGenerator) Option {
	return func(c *Config) { c.NewSessionID = gen }
}

// WithSignatureSchemes sets the signature_algorithms this side
// advertises and accepts, feeding SigHashAlgorithms (sighash.go).
func WithSignatureSchemes(schemes []uint16) Option {
	return func(c *Config) { c.SignatureSchemes = schemes }
}

// WithOCSPResponder enables OCSP stapling: given the chain about to be
// sent, it returns a stapled response, if any.
func WithOCSPResponder(fn func(chain [][]byte) (response []byte, ok bool)) Option {
	return func(c *Config) { c.OCSPResponder = fn }
}

// WithClientExtensionParser and WithServerExtensionParser wire
// extension decoding for the reference ClientHello/ServerHello
// handlers (handlers_hello.go). Without one, the corresponding handler
// assumes no ticket, no OCSP request, and no signature_algorithms
// restriction.
func WithClientExtensionParser(p ClientExtensionParser) Option {
	return func(c *Config) { c.ClientExtensions = p }
}

func WithServerExtensionParser(p ServerExtensionParser) Option {
	return func(c *Config) { c.ServerExtensions = p }
}

// logger returns the scoped logger for this connection's negotiate
// loop, matching the teacher's per-conn LeveledLogger use.
func (c *Config) logger() logging.LeveledLogger {
	if c == nil || c.LoggerFactory == nil {
		return logging.NewDefaultLoggerFactory().NewLogger("handshake")
	}
	return c.LoggerFactory.NewLogger("handshake")
}
