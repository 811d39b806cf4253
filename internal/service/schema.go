package service

import "fmt"

// querySchemaJSON is the closed contract for the completion output.
// Every key is required (present, possibly null) and no extra keys are
// allowed, so a conforming document can be unmarshalled straight into
// model.StructuredQuery.
const querySchemaJSON = `{
  "name": "RealEstateQuerySchema",
  "description": "Schema to structure the real estate query parameters.",
  "type": "object",
  "properties": {
    "category": {
      "type": "string",
      "enum": ["rent", "forsale"],
      "description": "Category of the real estate listing, either \"rent\" or \"forsale\". Example: \"forsale\""
    },
    "minPrice": {"type": ["number", "null"], "description": "Minimum price. Example: 1000000"},
    "maxPrice": {"type": ["number", "null"], "description": "Maximum price. Example: 3000000"},
    "minRooms": {"type": ["number", "null"], "description": "Minimum number of rooms. Example: 2"},
    "maxRooms": {"type": ["number", "null"], "description": "Maximum number of rooms. Example: 5"},
    "minFloor": {"type": ["number", "null"], "description": "Minimum floor level. Example: 1"},
    "maxFloor": {"type": ["number", "null"], "description": "Maximum floor level. Example: 10"},
    "minSquareMeter": {"type": ["number", "null"], "description": "Minimum square meters. Example: 60"},
    "maxSquareMeter": {"type": ["number", "null"], "description": "Maximum square meters. Example: 150"},
    "imageOnly": {"type": ["boolean", "null"], "description": "Include only listings with images. Example: true"},
    "priceOnly": {"type": ["boolean", "null"], "description": "Include only listings with prices. Example: true"},
    "settlements": {"type": ["boolean", "null"], "description": "Filter for specific settlement areas. Example: true"},
    "priceDropped": {"type": ["boolean", "null"], "description": "Include only listings where the price has dropped. Example: true"},
    "brokerage": {"type": ["boolean", "null"], "description": "Include listings that involve brokerage. Example: true"},
    "newFromContractor": {"type": ["boolean", "null"], "description": "Include new properties from contractors. Example: true"},
    "property": {"type": ["string", "null"], "description": "Comma-separated list of property type IDs as a string. Example: \"1,3,5\""},
    "parking": {"type": ["boolean", "null"], "description": "Include listings with parking. Example: true"},
    "elevator": {"type": ["boolean", "null"], "description": "Include listings with an elevator. Example: true"},
    "airConditioner": {"type": ["boolean", "null"], "description": "Include listings with air conditioning. Example: true"},
    "balcony": {"type": ["boolean", "null"], "description": "Include listings with a balcony. Example: true"},
    "shelter": {"type": ["boolean", "null"], "description": "Include listings with a shelter. Example: true"},
    "bars": {"type": ["boolean", "null"], "description": "Include listings with bars on windows. Example: true"},
    "warehouse": {"type": ["boolean", "null"], "description": "Include listings with a warehouse. Example: true"},
    "accessibility": {"type": ["boolean", "null"], "description": "Include accessible listings. Example: true"},
    "renovated": {"type": ["boolean", "null"], "description": "Include renovated listings. Example: true"},
    "furniture": {"type": ["boolean", "null"], "description": "Include furnished listings. Example: true"},
    "assetExclusive": {"type": ["boolean", "null"], "description": "Include exclusive listings. Example: true"},
    "topArea": {"type": ["number", "null"], "description": "Filter by top area code. Example: 1"},
    "area": {"type": ["number", "null"], "description": "Filter by area code. Example: 2"},
    "city": {"type": ["number", "null"], "description": "Filter by city code. Example: 5000 (Tel Aviv-Yafo)"},
    "subcategory": {
      "type": "string",
      "enum": ["forsale", "rent"],
      "description": "Subcategory of the listing, either \"forsale\" or \"rent\". Example: \"forsale\""
    },
    "propertyCondition": {"type": ["string", "null"], "description": "Comma-separated list of property condition IDs as a string. Example: \"1,2\""},
    "searchUrl": {
      "type": "string",
      "description": "Generated search URL based on the input parameters. Format: \"{search-base}/{category}?single-value-param=value&multiple-value-param=value1,value2\""
    },
    "apiUrl": {
      "type": "string",
      "description": "Generated API URL for fetching the real estate data. Format: \"{feed-base}/{category}/map?single-value-param=value&multiple-value-param=value1,value2\""
    }
  },
  "required": [
    "category", "minPrice", "maxPrice", "minRooms", "maxRooms",
    "minFloor", "maxFloor", "minSquareMeter", "maxSquareMeter",
    "imageOnly", "priceOnly", "settlements", "priceDropped",
    "brokerage", "newFromContractor", "property", "parking",
    "elevator", "airConditioner", "balcony", "shelter", "bars",
    "warehouse", "accessibility", "renovated", "furniture",
    "assetExclusive", "topArea", "area", "city", "propertyCondition",
    "subcategory", "searchUrl", "apiUrl"
  ],
  "additionalProperties": false
}`

const promptTemplate = `You are a real estate query generator. Given the user input below, generate a JSON object that conforms to the provided schema. Include every schema key; use null for anything the user did not mention.

**Special Instructions:**

- If the user is searching for 'parking' (חניה) and does not specify 'rent' or 'forsale', default the **category** to **'rent'**.

- When the user specifies 'parking' (חניה) as the main property type they are looking for, set the **property** field to **'30'**, which corresponds to 'Parking'. Do not misinterpret 'parking' as a feature of an apartment; treat it as the property type if it's clear from the context.

Additionally, generate URLs for both the search and the API using the following formats:

- **searchUrl**: "BASE: %[1]s/ THEN: {category}?single-value-param=value&multiple-value-param=value1,value2&range-value-param=minvalue-maxvalue&text=keywords"
  - Example: "%[1]s/forsale?city=5000&property=1,3,5&minPrice=1000000&maxPrice=3000000&minRooms=2&maxRooms=5"

- **apiUrl**: "BASE: %[2]s/ THEN: {category}/map?single-value-param=value&multiple-value-param=value1,value2&range-value-param=minvalue-maxvalue&text=keywords"
  - Example: "%[2]s/forsale/map?city=5000&property=1,3,5&minPrice=1000000&maxPrice=3000000&minRooms=2&maxRooms=5"

**Pay close attention to the URLs:**

- **Do not change the order of the path parameters**; only modify the query parameters based on the input.
- Both URLs must carry exactly the same query parameters.
- Parameters like 'property' or 'propertyCondition' are strings of comma-separated values; serialize them as one key with a comma-joined value, never as repeated keys.
- **Do not include undefined or null parameters** in the URLs.

**Property type IDs** (for the 'property' field):
1: דירה (Apartment), 3: דירת גן (Garden Apartment), 5: בית פרטי/קוטג' (Private House/Cottage), 6: גג/פנטהאוז (Roof/Penthouse), 7: דופלקס (Duplex), 11: יחידת דיור (Housing Unit), 25: תיירות ונופש (Tourism and Vacation), 30: חניה (Parking), 32: משק חקלאי/נחלה (Agricultural Farm), 33: מגרשים (Lots), 39: דו משפחתי (Semi-detached House), 41: כללי (General), 44: בניין מגורים (Residential Building), 45: מחסן (Warehouse), 49: מרתף/פרטר (Basement/Parterre), 50: קב' רכישה/זכות לנכס (Purchase Group), 51: טריפלקס (Triplex), 55: משק עזר (Auxiliary Farm), 61: דיור מוגן (Sheltered Housing)

**City codes** (for the 'city' field):
3000: ירושלים (Jerusalem), 5000: תל אביב-יפו (Tel Aviv-Yafo), 4000: חיפה (Haifa), 6400: הרצליה (Herzliya), 6900: כפר סבא (Kfar Saba), 8700: רעננה (Ra'anana), 2600: אילת (Eilat), 7900: פתח תקווה (Petah Tikva), 8300: ראשון לציון (Rishon LeZion), 6100: בני ברק (Bnei Brak), 1200: מודיעין מכבים רעות (Modi'in-Maccabim-Re'ut)

### User Input:

"%[3]s"

Generate the JSON object accordingly, and include the 'searchUrl' and 'apiUrl' fields containing the generated URLs based on the input parameters.`

// buildPrompt embeds the free text and the URL bases in the
// instruction prompt.
func buildPrompt(searchBase, feedBase, freeText string) string {
	return fmt.Sprintf(promptTemplate, searchBase, feedBase, freeText)
}
