// Command tokenclient resolves a bearer token against the internal gRPC
// token service and prints the user it identifies.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"google.golang.org/protobuf/types/known/wrapperspb"

	authgrpc "mimoapp/internal/auth/grpc"
)

func main() {
	addr := flag.String("addr", "localhost:50051", "token service address")
	token := flag.String("token", "", "bearer token to resolve")
	cert := flag.String("cert", "", "client certificate (mTLS)")
	key := flag.String("key", "", "client key (mTLS)")
	ca := flag.String("ca", "", "CA certificate (mTLS)")
	timeout := flag.Duration("timeout", 5*time.Second, "request timeout")
	flag.Parse()

	if *token == "" {
		log.Fatal("-token is required")
	}

	conn, err := authgrpc.Dial(*addr, authgrpc.ClientTLS{CertFile: *cert, KeyFile: *key, CAFile: *ca})
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	user, err := authgrpc.NewTokenServiceClient(conn).Resolve(ctx, wrapperspb.String(*token))
	if err != nil {
		log.Fatal(err)
	}

	if err := json.NewEncoder(os.Stdout).Encode(user.AsMap()); err != nil {
		log.Fatal(err)
	}
}
