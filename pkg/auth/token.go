// Copyright 2025 MakeMCP Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package auth sanity-checks the bearer credential this server forwards
// to Airflow. Airflow accepts both opaque API keys and OIDC-issued JWTs,
// so a malformed token is worth a warning, not a hard failure - except
// when the operator has pointed us at a JWKS endpoint, in which case a
// signature mismatch means the configured token genuinely won't work and
// is treated as a configuration error.
package auth

import (
	"fmt"
	"log"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

// CheckToken inspects token and returns a non-nil error only when it can
// be sure the token will be rejected by Airflow: a malformed-looking JWT
// is left alone (it may simply be an opaque API key), but a JWT that
// fails signature verification against an explicitly configured JWKS
// endpoint is a real error.
func CheckToken(token, jwksURI string) error {
	if token == "" {
		return nil
	}
	if jwksURI == "" {
		warnIfMalformedJWT(token)
		return nil
	}
	return verifyAgainstJWKS(token, jwksURI)
}

// warnIfMalformedJWT parses the token's claims without verifying its
// signature, purely to decide whether it looks like a JWT worth a
// diagnostic. A token without exactly three dot-separated JWT segments
// is assumed to be an opaque API key and gets no warning.
func warnIfMalformedJWT(token string) {
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, jwt.MapClaims{}); err != nil {
		if looksLikeJWT(token) {
			log.Printf("auth: AUTH_TOKEN looks like a JWT but failed to parse: %v", err)
		}
	}
}

func looksLikeJWT(token string) bool {
	segments := 1
	for _, r := range token {
		if r == '.' {
			segments++
		}
	}
	return segments == 3
}

func verifyAgainstJWKS(token, jwksURI string) error {
	jwks, err := keyfunc.Get(jwksURI, keyfunc.Options{RefreshInterval: time.Hour})
	if err != nil {
		return fmt.Errorf("auth: fetching JWKS from %s: %w", jwksURI, err)
	}
	defer jwks.EndBackground()

	if _, err := jwt.Parse(token, jwks.Keyfunc); err != nil {
		return fmt.Errorf("auth: AUTH_TOKEN failed verification against %s: %w", jwksURI, err)
	}
	return nil
}
