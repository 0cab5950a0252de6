/**
 * Copyright 2025-present the address-sync authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"flag"
	"fmt"

	"address-sync-go/internal/common"
	"address-sync-go/internal/config"
	"address-sync-go/internal/geo"

	"go.uber.org/zap"
)

func main() {
	queryFlag := flag.String("query", "", "Search term for places lookup")
	latFlag := flag.Float64("lat", 4.8594, "Latitude of the search origin")
	lngFlag := flag.Float64("lng", 31.5713, "Longitude of the search origin")
	geocodeFlag := flag.Bool("geocode", false, "Reverse geocode the given coordinates instead of searching")
	flag.Parse()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	if *geocodeFlag {
		address := services.Cache.ReverseGeocode(ctx, *latFlag, *lngFlag)
		common.PrintHeader("REVERSE GEOCODE", common.DefaultWidth)
		fmt.Printf("  %.5f, %.5f → %s\n", *latFlag, *lngFlag, address)
		common.PrintFooter("Done", common.DefaultWidth)
		return
	}

	if *queryFlag == "" {
		logger.Fatal("A -query term is required unless -geocode is set")
	}

	places := services.Cache.SearchPlaces(ctx, *queryFlag, *latFlag, *lngFlag)

	common.PrintHeader(fmt.Sprintf("PLACES MATCHING %q", *queryFlag), common.DefaultWidth)
	if len(places) == 0 {
		fmt.Println("  No places found")
	}
	for i, place := range places {
		distance := geo.Distance(*latFlag, *lngFlag, place.Latitude, place.Longitude)
		fmt.Printf("%s%-28s %6.2f km  %s\n",
			common.BoxPrefix(i == len(places)-1), place.Name, distance, place.Address)
	}
	common.PrintFooter(fmt.Sprintf("%d places", len(places)), common.DefaultWidth)

	logger.Info("Places search completed",
		zap.String("query", *queryFlag),
		zap.Int("count", len(places)))
}
