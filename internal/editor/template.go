package editor

// Template is the starter specification shown in a fresh editor.
const Template = `# My Software Project

## Description
A brief description of your software project.

## Classes

### User
A user of the system.

#### Attributes
- id: int
- username: str
- email: str
- password: str = "" // Hashed password

#### Methods
- authenticate(password: str) -> bool // Authenticate user
- updateProfile(data: Dict) -> bool // Update user profile

### Product
A product in the system.

#### Attributes
- id: int
- name: str
- price: float
- description: str = ""

#### Methods
- getDetails() -> Dict // Get product details
- updatePrice(price: float) -> bool // Update product price

## Architecture

### Frontend
The user interface of the application.

#### Responsibilities
- Render user interface
- Handle user inputs
- Communicate with backend

#### Interactions
- Backend -> Send user requests

### Backend
The server-side of the application.

#### Responsibilities
- Process requests
- Business logic
- Data storage

#### Interactions
- Database -> Store and retrieve data

### Database
The data persistence layer.

#### Responsibilities
- Store data
- Provide data access
- Ensure data integrity

## Use Cases

### Register User
Allow a new user to register in the system.

#### Actors
- Visitor

#### Preconditions
- User is not logged in

#### Flow
1. Visitor -> System: Access registration form
2. Visitor -> System: Fill in user details
3. System -> Database: Save user data
4. System -> User: Confirm registration

#### Postconditions
- New user account is created
- User is logged in

### Purchase Product
Allow a user to purchase a product.

#### Actors
- User

#### Preconditions
- User is logged in
- Product is available

#### Flow
1. User -> System: Select product
2. User -> System: Add to cart
3. User -> System: Proceed to checkout
4. System -> Payment Gateway: Process payment
5. System -> Database: Update inventory
6. System -> User: Confirm purchase

#### Postconditions
- Purchase is recorded
- Inventory is updated
- User receives confirmation
`
