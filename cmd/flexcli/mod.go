// flexcli is an offline companion tool for the flex-multisig contract. It
// manages the Ed25519 signing keys and produces the signed permits that
// authenticate queries.
//
// A permit is described by a yaml claims file:
//
//	name: observer-2026
//	chain_id: secret-4
//	contracts:
//	  - flexb2cc59e70b7819a9a41e339ed63b2bf2c9a79f2d
//	permissions:
//	  - balance
//	  - history
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/TriviumNode/scrt-flex-multisig/core/access"
	"github.com/TriviumNode/scrt-flex-multisig/core/access/permit"
	"github.com/TriviumNode/scrt-flex-multisig/crypto/ed25519"
	"github.com/TriviumNode/scrt-flex-multisig/crypto/loader"
	"github.com/TriviumNode/scrt-flex-multisig/serde/json"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"
)

type claims struct {
	Name        string   `yaml:"name"`
	ChainID     string   `yaml:"chain_id"`
	Contracts   []string `yaml:"contracts"`
	Permissions []string `yaml:"permissions"`
}

func main() {
	app := &cli.App{
		Name:  "flexcli",
		Usage: "manage signing keys and query permits",
		Commands: []*cli.Command{
			{
				Name:  "key",
				Usage: "manage the Ed25519 signing keys",
				Subcommands: []*cli.Command{
					{
						Name:  "gen",
						Usage: "generate a signing key if none exists",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "key",
								Usage:    "the path of the key file",
								Required: true,
							},
						},
						Action: keyGen,
					},
					{
						Name:  "show",
						Usage: "print the public key and the address of a key file",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "key",
								Usage:    "the path of the key file",
								Required: true,
							},
						},
						Action: keyShow,
					},
				},
			},
			{
				Name:  "permit",
				Usage: "sign and inspect query permits",
				Subcommands: []*cli.Command{
					{
						Name:  "sign",
						Usage: "sign the claims file and print the permit",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "key",
								Usage:    "the path of the key file",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "claims",
								Usage:    "the path of the yaml claims file",
								Required: true,
							},
						},
						Action: permitSign,
					},
					{
						Name:  "show",
						Usage: "decode a permit and print its claims",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "permit",
								Usage:    "the path of the permit file",
								Required: true,
							},
						},
						Action: permitShow,
					},
				},
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

// generator turns a fresh signer into the bytes stored in the key file.
//
// - implements loader.Generator
type generator struct{}

func (generator) Generate() ([]byte, error) {
	signer := ed25519.NewSigner()

	data, err := signer.MarshalPrivateKey()
	if err != nil {
		return nil, xerrors.Errorf("while marshaling: %v", err)
	}

	return data, nil
}

func keyGen(c *cli.Context) error {
	ld := loader.NewFileLoader(c.String("key"))

	_, err := ld.LoadOrCreate(generator{})
	if err != nil {
		return xerrors.Errorf("while loading key: %v", err)
	}

	return keyShow(c)
}

func loadSigner(path string) (ed25519.Signer, error) {
	data, err := loader.NewFileLoader(path).Load()
	if err != nil {
		return ed25519.Signer{}, xerrors.Errorf("while loading key: %v", err)
	}

	signer, err := ed25519.NewSignerFromBytes(data)
	if err != nil {
		return ed25519.Signer{}, xerrors.Errorf("while reading key: %v", err)
	}

	return signer, nil
}

func keyShow(c *cli.Context) error {
	signer, err := loadSigner(c.String("key"))
	if err != nil {
		return err
	}

	pubkey := signer.GetPublicKey()

	text, err := pubkey.MarshalText()
	if err != nil {
		return xerrors.Errorf("while marshaling public key: %v", err)
	}

	addr, err := access.NewAddressFromPublicKey(pubkey)
	if err != nil {
		return xerrors.Errorf("while deriving address: %v", err)
	}

	fmt.Fprintf(c.App.Writer, "Public key: %s\nAddress: %s\n", text, addr)

	return nil
}

func permitSign(c *cli.Context) error {
	signer, err := loadSigner(c.String("key"))
	if err != nil {
		return err
	}

	buffer, err := os.ReadFile(c.String("claims"))
	if err != nil {
		return xerrors.Errorf("while reading claims: %v", err)
	}

	cl := claims{}
	err = yaml.Unmarshal(buffer, &cl)
	if err != nil {
		return xerrors.Errorf("while unmarshaling claims: %v", err)
	}

	params := permit.Params{
		Name:        cl.Name,
		Chain:       cl.ChainID,
		Contracts:   cl.Contracts,
		Permissions: cl.Permissions,
	}

	p, err := permit.Sign(signer, params)
	if err != nil {
		return xerrors.Errorf("while signing: %v", err)
	}

	data, err := p.Serialize(json.NewContext())
	if err != nil {
		return xerrors.Errorf("while serializing permit: %v", err)
	}

	fmt.Fprintln(c.App.Writer, string(data))

	return nil
}

func permitShow(c *cli.Context) error {
	buffer, err := os.ReadFile(c.String("permit"))
	if err != nil {
		return xerrors.Errorf("while reading permit: %v", err)
	}

	factory := permit.NewFactory(ed25519.NewPublicKeyFactory(), ed25519.NewSignatureFactory())

	p, err := factory.PermitOf(json.NewContext(), buffer)
	if err != nil {
		return xerrors.Errorf("while decoding permit: %v", err)
	}

	addr, err := access.NewAddressFromPublicKey(p.GetPublicKey())
	if err != nil {
		return xerrors.Errorf("while deriving address: %v", err)
	}

	params := p.GetParams()

	fmt.Fprintf(c.App.Writer, "Name: %s\nChain: %s\nContracts: %v\nPermissions: %v\nSigner: %s\n",
		params.Name, params.Chain, params.Contracts, params.Permissions, addr)

	return nil
}
