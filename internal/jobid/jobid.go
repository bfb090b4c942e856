// Package jobid derives deterministic job identifiers so the queue runtime can
// de-duplicate logically identical submissions by ID alone.
package jobid

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"
)

const (
	PrefixSync       = "sync"
	PrefixPnl        = "pnl"
	PrefixBehavior   = "behavior"
	PrefixSimilarity = "similarity"
	PrefixEnrich     = "enrich"
	PrefixDex        = "dex"
)

const (
	shortHashLength = 8
	longHashLength  = 12
)

var hashLengths = map[string]int{
	PrefixSync:       shortHashLength,
	PrefixPnl:        shortHashLength,
	PrefixBehavior:   shortHashLength,
	PrefixSimilarity: longHashLength,
	PrefixEnrich:     shortHashLength,
	PrefixDex:        shortHashLength,
}

var idPattern = regexp.MustCompile(`^([a-z]+)-([0-9a-f]+)$`)

// SyncWallet returns the ID of a wallet sync job.
func SyncWallet(walletAddress, requestID string) string {
	return derive(PrefixSync, walletAddress, requestID)
}

// CalculatePnl returns the ID of a PNL job; dependsOn is the upstream job or request ID.
func CalculatePnl(walletAddress, dependsOn string) string {
	return derive(PrefixPnl, walletAddress, dependsOn)
}

// AnalyzeBehavior returns the ID of a behavior analysis job.
func AnalyzeBehavior(walletAddress, dependsOn string) string {
	return derive(PrefixBehavior, walletAddress, dependsOn)
}

// CalculateSimilarity returns the ID of a similarity job. The wallet set is
// sorted before hashing so its order never changes the ID.
func CalculateSimilarity(walletAddresses []string, requestID string) string {
	sorted := make([]string, len(walletAddresses))
	copy(sorted, walletAddresses)
	sort.Strings(sorted)

	return derive(PrefixSimilarity, strings.Join(sorted, ","), requestID)
}

// EnrichTokens returns the ID of a token balance enrichment job.
func EnrichTokens(walletAddress, requestID string) string {
	return derive(PrefixEnrich, walletAddress, requestID)
}

// FetchDexData returns the ID of a DEX market data fetch job.
func FetchDexData(tokenAddress, requestID string) string {
	return derive(PrefixDex, tokenAddress, requestID)
}

// Validate reports whether id has the given type prefix and the hash length
// that prefix uses.
func Validate(id, prefix string) bool {
	length, ok := hashLengths[prefix]
	if !ok {
		return false
	}

	m := idPattern.FindStringSubmatch(id)
	if m == nil {
		return false
	}

	return m[1] == prefix && len(m[2]) == length
}

// ExtractType returns the type prefix of id, or "" if id is not a generated ID.
func ExtractType(id string) string {
	m := idPattern.FindStringSubmatch(id)
	if m == nil {
		return ""
	}
	if _, ok := hashLengths[m[1]]; !ok {
		return ""
	}
	return m[1]
}

func derive(prefix string, fields ...string) string {
	sum := sha256.Sum256([]byte(prefix + ":" + strings.Join(fields, ":")))
	return prefix + "-" + hex.EncodeToString(sum[:])[:hashLengths[prefix]]
}
